package main

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Ensure memory store covers the full record lifecycle.
func TestMemoryStore_Lifecycle(t *testing.T) {
	ms := NewMemoryBookStorage(zap.NewNop())

	book, err := ms.Add(context.TODO(), Book{Title: "Memory test book title", Author: "A", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, 1, book.ID)

	got, err := ms.GetOne(context.TODO(), book.ID)
	assert.NoError(t, err)
	assert.Equal(t, book, got)

	updated, err := ms.Update(context.TODO(), book.ID, Book{Title: "Updated", Author: "A", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, book.ID, updated.ID)
	assert.Equal(t, "Updated", updated.Title)

	assert.NoError(t, ms.Delete(context.TODO(), book.ID))

	_, err = ms.GetOne(context.TODO(), book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure memory store surfaces unknown ids as absent records.
func TestMemoryStore_UnknownID(t *testing.T) {
	ms := NewMemoryBookStorage(zap.NewNop())

	_, err := ms.GetOne(context.TODO(), 7)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = ms.Update(context.TODO(), 7, Book{Title: "t", Author: "a", Genre: "g"})
	assert.ErrorIs(t, err, ErrBookNotFound)

	assert.ErrorIs(t, ms.Delete(context.TODO(), 7), ErrBookNotFound)
}

// Ensure memory store lists records in insertion order and never reuses
// an identity after a deletion.
func TestMemoryStore_GetAllBooks(t *testing.T) {
	ms := NewMemoryBookStorage(zap.NewNop())

	for _, title := range []string{"first", "second", "third"} {
		_, err := ms.Add(context.TODO(), Book{Title: title, Author: "A", Genre: "G"})
		require.NoError(t, err)
	}
	require.NoError(t, ms.Delete(context.TODO(), 2))

	books, err := ms.GetAll(context.TODO())
	assert.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "first", books[0].Title)
	assert.Equal(t, "third", books[1].Title)

	fourth, err := ms.Add(context.TODO(), Book{Title: "fourth", Author: "A", Genre: "G"})
	assert.NoError(t, err)
	assert.Equal(t, 4, fourth.ID)
}

// Ensure memory store stays consistent under concurrent inserts.
func TestMemoryStore_ConcurrentAdds(t *testing.T) {
	ms := NewMemoryBookStorage(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ms.Add(context.TODO(), Book{Title: "t", Author: "a", Genre: "g"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	books, err := ms.GetAll(context.TODO())
	assert.NoError(t, err)
	require.Len(t, books, 50)
	seen := make(map[int]bool, len(books))
	for _, book := range books {
		assert.False(t, seen[book.ID])
		seen[book.ID] = true
	}
}
