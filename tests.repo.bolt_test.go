package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltStore returns a new instance of the bolt replica in a temporary path.
func newTestBoltStore() (*boltBookStorage, error) {
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	if err != nil {
		return nil, err
	}
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.books",
		},
	}

	client, err := GetBoltDBClient(testConfig)

	return &boltBookStorage{
		logger: zap.NewNop(),
		client: client,
		config: &testConfig.BoltDB,
	}, err
}

// closeTestBoltStore closes the temporary bolt store and removes the underlying data file.
func (bs *boltBookStorage) closeTestBoltStore() error {
	defer os.Remove(bs.config.FilePath)
	return bs.Close()
}

// Ensure bolt replica can insert a new book.
func TestBoltStore_AddBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()
	testBookID := "b:0"

	// Create a new book.
	b := Book{ID: testBookID, Title: "Bolt test book title", Status: StatusAvailable}
	err = bs.Add(context.TODO(), testBookID, b)
	assert.NoError(t, err)

	// Verify book can be retrieved.
	book, err := bs.GetOne(context.TODO(), testBookID)
	assert.NoError(t, err)
	assert.Equal(t, testBookID, book.ID)
	assert.Equal(t, "Bolt test book title", book.Title)
	assert.Equal(t, StatusAvailable, book.Status)
}

// Ensure bolt replica can replay an update with its borrow history.
func TestBoltStore_UpdateBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()
	testBookID := "b:1"

	b := Book{ID: testBookID, Title: "Bolt test book title", Status: StatusAvailable}
	err = bs.Add(context.TODO(), testBookID, b)
	require.NoError(t, err)

	b.Status = StatusCheckedOut
	b.CheckedOutBy = "alice"
	b.CheckedOutDate = "2023-07-02"
	b.BorrowHistory = []LoanRecord{{Borrower: "bob", CheckoutDate: "2023-06-01", ReturnDate: "2023-06-15"}}
	_, err = bs.Update(context.TODO(), testBookID, b)
	assert.NoError(t, err)

	book, err := bs.GetOne(context.TODO(), testBookID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, book.Status)
	assert.Equal(t, "alice", book.CheckedOutBy)
	require.Len(t, book.BorrowHistory, 1)
	assert.Equal(t, "bob", book.BorrowHistory[0].Borrower)
}

// Ensure bolt replica can delete a book and report missing ones.
func TestBoltStore_DeleteBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()
	testBookID := "b:2"

	b := Book{ID: testBookID, Title: "Bolt test book title"}
	err = bs.Add(context.TODO(), testBookID, b)
	require.NoError(t, err)

	err = bs.Delete(context.TODO(), testBookID)
	assert.NoError(t, err)

	_, err = bs.GetOne(context.TODO(), testBookID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure bolt replica can list all replicated books.
func TestBoltStore_GetAllBooks(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	for i, title := range []string{"first", "second", "third"} {
		id := "b:" + string(rune('0'+i))
		err = bs.Add(context.TODO(), id, Book{ID: id, Title: title})
		require.NoError(t, err)
	}

	books, err := bs.GetAll(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, books, 3)
}
