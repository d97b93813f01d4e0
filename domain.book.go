package main

import "context"

// BookStatus is the lending state of a book.
type BookStatus string

const (
	StatusAvailable  BookStatus = "available"
	StatusCheckedOut BookStatus = "checked-out"
)

// LoanRecord is one completed loan of a book. Records are append-only:
// an entry is created at check-in time only, never at checkout.
type LoanRecord struct {
	Borrower     string `json:"borrower"`
	CheckoutDate string `json:"checkoutDate"`
	ReturnDate   string `json:"returnDate"`
}

// Book represents a book entity of the catalog. CheckedOutBy and
// CheckedOutDate are both set while the book is checked-out and both
// empty while it is available. The current loan is never part of
// BorrowHistory.
type Book struct {
	ID             string       `json:"id"`
	Title          string       `json:"title" binding:"required"`
	Author         string       `json:"author" binding:"required"`
	ISBN           string       `json:"isbn"`
	Description    string       `json:"description"`
	Status         BookStatus   `json:"status"`
	IsFavorite     bool         `json:"isFavorite"`
	CheckedOutBy   string       `json:"checkedOutBy,omitempty"`
	CheckedOutDate string       `json:"checkedOutDate,omitempty"`
	AddedDate      string       `json:"addedDate"`
	BorrowHistory  []LoanRecord `json:"borrowHistory"`
}

// IsCheckedOut reports whether the book currently has a borrower.
func (b *Book) IsCheckedOut() bool {
	return b.Status == StatusCheckedOut
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, book Book) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
}
