package main

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// BookServiceProvider exposes every catalog operation. Each call
// receives the caller identity and consults the authorization table
// before any state transition happens.
type BookServiceProvider interface {
	Add(ctx context.Context, caller Caller, book Book) (Book, error)
	GetOne(ctx context.Context, caller Caller, id string) (Book, error)
	GetAll(ctx context.Context, caller Caller) ([]Book, error)
	Checkout(ctx context.Context, caller Caller, id string) (Book, error)
	Checkin(ctx context.Context, caller Caller, id string) (Book, error)
	ToggleFavorite(ctx context.Context, caller Caller, id string) (Book, error)
	GetHistory(ctx context.Context, caller Caller, id string) ([]LoanRecord, error)
	ClearHistory(ctx context.Context, caller Caller, id string) (Book, error)
	Delete(ctx context.Context, caller Caller, id string) error
	DeleteAll(ctx context.Context, caller Caller) error
}

type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage BookStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		queue:   queue,
	}
}

// push enqueues the mutation for the bolt replica. Replication is best
// effort: a queue failure is logged and never fails the primary write.
func (bs *BookService) push(ctx context.Context, qid string, book Book) {
	if err := bs.queue.Push(ctx, qid, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", qid), zap.Error(err))
	}
}

// Add creates a new available book with an empty borrow history.
func (bs *BookService) Add(ctx context.Context, caller Caller, book Book) (Book, error) {
	if !Allowed(caller.Role, OpAddBook) {
		return Book{}, ErrForbidden
	}

	book.ID = bs.ids.Generate(BookIDPrefix)
	book.Status = StatusAvailable
	book.IsFavorite = false
	book.CheckedOutBy = ""
	book.CheckedOutDate = ""
	book.AddedDate = DateOf(bs.clock.Now())
	book.BorrowHistory = []LoanRecord{}

	if err := bs.storage.Add(ctx, book.ID, book); err != nil {
		return Book{}, err
	}
	bs.push(ctx, CreateQueue, book)
	return book, nil
}

// GetOne returns a single book when visible to the caller.
func (bs *BookService) GetOne(ctx context.Context, caller Caller, id string) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if !CanSee(caller, book) {
		return Book{}, ErrForbidden
	}
	return book, nil
}

// GetAll returns the subset of the catalog visible to the caller.
func (bs *BookService) GetAll(ctx context.Context, caller Caller) ([]Book, error) {
	if !Allowed(caller.Role, OpListBooks) {
		return nil, ErrForbidden
	}
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return VisibleBooks(caller, books), nil
}

// Checkout transitions an available book to checked-out and records the
// borrower. An already-checked-out book is rejected, never overwritten.
func (bs *BookService) Checkout(ctx context.Context, caller Caller, id string) (Book, error) {
	if !Allowed(caller.Role, OpCheckout) {
		return Book{}, ErrForbidden
	}

	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if book.IsCheckedOut() {
		return Book{}, ErrBookAlreadyCheckedOut
	}

	book.Status = StatusCheckedOut
	book.CheckedOutBy = caller.Username
	book.CheckedOutDate = DateOf(bs.clock.Now())

	book, err = bs.storage.Update(ctx, id, book)
	if err != nil {
		return Book{}, err
	}
	bs.push(ctx, UpdateQueue, book)
	return book, nil
}

// Checkin transitions a checked-out book back to available and archives
// the completed loan. The history append and the loan fields clearing are
// one in-memory transformation persisted by a single document update, so
// no partial state is ever observable.
func (bs *BookService) Checkin(ctx context.Context, caller Caller, id string) (Book, error) {
	if !Allowed(caller.Role, OpCheckin) {
		return Book{}, ErrForbidden
	}

	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if !book.IsCheckedOut() {
		return Book{}, ErrBookNotCheckedOut
	}
	if !CanCheckin(caller, book) {
		return Book{}, ErrForbidden
	}

	book.BorrowHistory = append(book.BorrowHistory, LoanRecord{
		Borrower:     book.CheckedOutBy,
		CheckoutDate: book.CheckedOutDate,
		ReturnDate:   DateOf(bs.clock.Now()),
	})
	book.Status = StatusAvailable
	book.CheckedOutBy = ""
	book.CheckedOutDate = ""

	book, err = bs.storage.Update(ctx, id, book)
	if err != nil {
		return Book{}, err
	}
	bs.push(ctx, UpdateQueue, book)
	return book, nil
}

// ToggleFavorite flips the favorite flag. It is orthogonal to the
// lending state of the book.
func (bs *BookService) ToggleFavorite(ctx context.Context, caller Caller, id string) (Book, error) {
	if !Allowed(caller.Role, OpFavorite) {
		return Book{}, ErrForbidden
	}

	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}
	book.IsFavorite = !book.IsFavorite

	book, err = bs.storage.Update(ctx, id, book)
	if err != nil {
		return Book{}, err
	}
	bs.push(ctx, UpdateQueue, book)
	return book, nil
}

// GetHistory returns the list of completed loans of a book.
func (bs *BookService) GetHistory(ctx context.Context, caller Caller, id string) ([]LoanRecord, error) {
	if !Allowed(caller.Role, OpViewHistory) {
		return nil, ErrForbidden
	}
	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.BorrowHistory == nil {
		return []LoanRecord{}, nil
	}
	return book.BorrowHistory, nil
}

// ClearHistory empties the borrow history of a book. The current loan,
// if any, is not part of the history and stays untouched.
func (bs *BookService) ClearHistory(ctx context.Context, caller Caller, id string) (Book, error) {
	if !Allowed(caller.Role, OpClearHistory) {
		return Book{}, ErrForbidden
	}

	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}
	book.BorrowHistory = []LoanRecord{}

	book, err = bs.storage.Update(ctx, id, book)
	if err != nil {
		return Book{}, err
	}
	bs.push(ctx, UpdateQueue, book)
	return book, nil
}

// Delete removes a book whatever its current status. Its history goes
// away with the document.
func (bs *BookService) Delete(ctx context.Context, caller Caller, id string) error {
	if !Allowed(caller.Role, OpDeleteBook) {
		return ErrForbidden
	}
	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}
	bs.push(ctx, DeleteQueue, Book{ID: id})
	return nil
}

// DeleteAll removes every book of the catalog. Deletions are independent:
// a failure on one book does not roll back the previous ones, errors are
// aggregated and reported together.
func (bs *BookService) DeleteAll(ctx context.Context, caller Caller) error {
	if !Allowed(caller.Role, OpDeleteBook) {
		return ErrForbidden
	}
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return err
	}

	var errs error
	for _, book := range books {
		if err := bs.storage.Delete(ctx, book.ID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		bs.push(ctx, DeleteQueue, Book{ID: book.ID})
	}
	return errs
}
