package main

import "context"

// User represents a registered account. The password hash
// never leaves the server side.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
	Role           Role   `json:"role"`
	CreatedAt      string `json:"createdAt"`
}

// Caller is the authenticated (or guest) identity attached to a request.
type Caller struct {
	ID       string
	Username string
	Role     Role
}

// GuestCaller builds the virtual identity used when no credential
// is presented. Guests have no stored account and cannot own a loan.
func GuestCaller() Caller {
	return Caller{Role: RoleGuest}
}

// UserStorage defines possible operations on user entity.
// Usernames are unique and act as the lookup key.
type UserStorage interface {
	Add(ctx context.Context, user User) error
	GetByUsername(ctx context.Context, username string) (User, error)
}
