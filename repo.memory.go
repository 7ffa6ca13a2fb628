package main

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// memoryBookStorage is an in-memory record store with auto-increment
// identities. It backs the `memory` storage engine used for local runs
// and tests, and must stay safe under concurrent requests.
type memoryBookStorage struct {
	logger *zap.Logger
	mu     sync.RWMutex
	books  map[int]Book
	nextID int
}

func NewMemoryBookStorage(logger *zap.Logger) *memoryBookStorage {
	return &memoryBookStorage{
		logger: logger,
		books:  make(map[int]Book),
		nextID: 1,
	}
}

// Add inserts a new record, assigning the next identity.
func (ms *memoryBookStorage) Add(_ context.Context, book Book) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	book.ID = ms.nextID
	ms.nextID++
	ms.books[book.ID] = book
	return book, nil
}

// GetOne retrieves a record based on its id.
func (ms *memoryBookStorage) GetOne(_ context.Context, id int) (Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	book, ok := ms.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

// Update replaces an existing record in place.
func (ms *memoryBookStorage) Update(_ context.Context, id int, book Book) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.books[id]; !ok {
		return Book{}, ErrBookNotFound
	}
	book.ID = id
	ms.books[id] = book
	return book, nil
}

// Delete removes a record based on its id.
func (ms *memoryBookStorage) Delete(_ context.Context, id int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(ms.books, id)
	return nil
}

// GetAll retrieves all records in ascending id order, which matches
// insertion order since identities only grow.
func (ms *memoryBookStorage) GetAll(_ context.Context) ([]Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	books := make([]Book, 0, len(ms.books))
	for _, book := range ms.books {
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books, nil
}
