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

// newTestBoltStore returns a new instance of the bolt record store in a temporary path.
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

// Ensure bolt store assigns sequence-based identities on insert.
func TestBoltStore_AddBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	// Create a new book. The store assigns the id.
	first, err := bs.Add(context.TODO(), Book{Title: "Bolt test book title", Author: "A", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := bs.Add(context.TODO(), Book{Title: "Another title", Author: "B", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	// Verify book can be retrieved.
	book, err := bs.GetOne(context.TODO(), first.ID)
	assert.NoError(t, err)
	assert.Equal(t, first, book)
}

// Ensure bolt store can update an existing book and rejects unknown ids.
func TestBoltStore_UpdateBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	book, err := bs.Add(context.TODO(), Book{Title: "Before", Author: "A", Genre: "G"})
	require.NoError(t, err)

	updated, err := bs.Update(context.TODO(), book.ID, Book{Title: "After", Author: "A", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, book.ID, updated.ID)

	got, err := bs.GetOne(context.TODO(), book.ID)
	assert.NoError(t, err)
	assert.Equal(t, "After", got.Title)

	_, err = bs.Update(context.TODO(), 99, Book{Title: "x", Author: "y", Genre: "z"})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure bolt store can delete an existing book and rejects unknown ids.
func TestBoltStore_DeleteBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	book, err := bs.Add(context.TODO(), Book{Title: "To delete", Author: "A", Genre: "G"})
	require.NoError(t, err)

	assert.NoError(t, bs.Delete(context.TODO(), book.ID))

	_, err = bs.GetOne(context.TODO(), book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	assert.ErrorIs(t, bs.Delete(context.TODO(), book.ID), ErrBookNotFound)
}

// Ensure bolt store returns all books in insertion order even after a
// deletion in the middle.
func TestBoltStore_GetAllBooks(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	for _, title := range []string{"first", "second", "third"} {
		_, err = bs.Add(context.TODO(), Book{Title: title, Author: "A", Genre: "G"})
		require.NoError(t, err)
	}
	require.NoError(t, bs.Delete(context.TODO(), 2))

	books, err := bs.GetAll(context.TODO())
	assert.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "first", books[0].Title)
	assert.Equal(t, "third", books[1].Title)

	// sequence keeps moving forward after deletions.
	fourth, err := bs.Add(context.TODO(), Book{Title: "fourth", Author: "A", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, 4, fourth.ID)
}
