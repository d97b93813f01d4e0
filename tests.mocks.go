package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc    func(ctx context.Context, id string, book Book) error
	GetOneFunc func(ctx context.Context, id string) (Book, error)
	DeleteFunc func(ctx context.Context, id string) error
	UpdateFunc func(ctx context.Context, id string, book Book) (Book, error)
	GetAllFunc func(ctx context.Context) ([]Book, error)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, id string, book Book) error {
	return m.AddFunc(ctx, id, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, id, book)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// MockUserStorage implements a fake UserStorage.
type MockUserStorage struct {
	AddFunc           func(ctx context.Context, user User) error
	GetByUsernameFunc func(ctx context.Context, username string) (User, error)
}

// Add mocks the behavior of account creation by the repository.
func (m *MockUserStorage) Add(ctx context.Context, user User) error {
	return m.AddFunc(ctx, user)
}

// GetByUsername mocks the behavior of retrieving an account by the repository.
func (m *MockUserStorage) GetByUsername(ctx context.Context, username string) (User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

// MemoryBookStorage is an in-memory BookStorage used to exercise the
// full read-modify-write cycle of the checkout state engine.
type MemoryBookStorage struct {
	books map[string]Book
}

func NewMemoryBookStorage() *MemoryBookStorage {
	return &MemoryBookStorage{books: make(map[string]Book)}
}

func (m *MemoryBookStorage) Add(_ context.Context, id string, book Book) error {
	m.books[id] = book
	return nil
}

func (m *MemoryBookStorage) GetOne(_ context.Context, id string) (Book, error) {
	book, ok := m.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

func (m *MemoryBookStorage) Delete(_ context.Context, id string) error {
	if _, ok := m.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *MemoryBookStorage) Update(_ context.Context, id string, book Book) (Book, error) {
	m.books[id] = book
	return book, nil
}

func (m *MemoryBookStorage) GetAll(_ context.Context) ([]Book, error) {
	books := []Book{}
	for _, book := range m.books {
		books = append(books, book)
	}
	return books, nil
}

// MockQueuer implements a fake Queuer which records pushed events.
type MockQueuer struct {
	Pushed  []string
	PopFunc func(ctx context.Context, qids ...string) (string, Book, error)
}

// Push records the queue id of each pushed mutation.
func (m *MockQueuer) Push(_ context.Context, qid string, _ Book) error {
	m.Pushed = append(m.Pushed, qid)
	return nil
}

// Pop mocks the dequeue behavior.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, Book, error) {
	return m.PopFunc(ctx, qids...)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)}
}

// Now returns an already defined time to be used as mock.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
