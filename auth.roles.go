package main

// Role is the access level carried by a caller credential.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Operation identifies one action a caller may perform on the catalog.
type Operation string

const (
	OpListBooks    Operation = "books.list"
	OpAddBook      Operation = "books.add"
	OpCheckout     Operation = "books.checkout"
	OpCheckin      Operation = "books.checkin"
	OpFavorite     Operation = "books.favorite"
	OpViewHistory  Operation = "books.history.view"
	OpClearHistory Operation = "books.history.clear"
	OpDeleteBook   Operation = "books.delete"
)

// permissions is the single authorization table keyed by (role, operation).
// Every mutating or filtering route consults it before touching a book,
// instead of per-route role conditionals.
var permissions = map[Role]map[Operation]bool{
	RoleAdmin: {
		OpListBooks:    true,
		OpAddBook:      true,
		OpCheckout:     true,
		OpCheckin:      true,
		OpFavorite:     true,
		OpViewHistory:  true,
		OpClearHistory: true,
		OpDeleteBook:   true,
	},
	RoleUser: {
		OpListBooks:   true,
		OpCheckout:    true,
		OpCheckin:     true,
		OpFavorite:    true,
		OpViewHistory: true,
	},
	RoleGuest: {
		OpListBooks: true,
	},
}

// Allowed reports whether the given role may perform the operation.
// Unknown roles are denied everything.
func Allowed(role Role, op Operation) bool {
	return permissions[role][op]
}

// CanSee reports whether one book is visible to the caller. Admin sees
// the whole catalog, a user sees available books plus its own checkouts,
// a guest sees available books only.
func CanSee(caller Caller, book Book) bool {
	switch caller.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return book.Status == StatusAvailable || book.CheckedOutBy == caller.Username
	case RoleGuest:
		return book.Status == StatusAvailable
	}
	return false
}

// CanCheckin applies the ownership rule: admin may return any book,
// a user only the books it checked out itself.
func CanCheckin(caller Caller, book Book) bool {
	if !Allowed(caller.Role, OpCheckin) {
		return false
	}
	return caller.Role == RoleAdmin || book.CheckedOutBy == caller.Username
}

// VisibleBooks filters a book set down to what the caller may list.
func VisibleBooks(caller Caller, books []Book) []Book {
	visible := []Book{}
	for _, book := range books {
		if CanSee(caller, book) {
			visible = append(visible, book)
		}
	}
	return visible
}
