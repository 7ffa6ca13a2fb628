package main

import (
	"context"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc    func(ctx context.Context, book Book) (Book, error)
	GetOneFunc func(ctx context.Context, id int) (Book, error)
	UpdateFunc func(ctx context.Context, id int, book Book) (Book, error)
	DeleteFunc func(ctx context.Context, id int) error
	GetAllFunc func(ctx context.Context) ([]Book, error)
}

// Add mocks the behavior of record creation by the store.
func (m *MockBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	return m.AddFunc(ctx, book)
}

// GetOne mocks the behavior of retrieving a record by the store.
func (m *MockBookStorage) GetOne(ctx context.Context, id int) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Update mocks the behavior of updating a record by the store.
func (m *MockBookStorage) Update(ctx context.Context, id int, book Book) (Book, error) {
	return m.UpdateFunc(ctx, id, book)
}

// Delete mocks the behavior of deleting a record by the store.
func (m *MockBookStorage) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all records by the store.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// MockNotifier implements a fake notification gateway which records
// how many change events were published.
type MockNotifier struct {
	mu         sync.Mutex
	published  int
	PublishErr error
}

// Publish mocks the fire-and-forget publication of a change event.
func (m *MockNotifier) Publish(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.published++
	return nil
}

// Subscribe mocks the gateway subscription with an always-empty stream.
func (m *MockNotifier) Subscribe(_ context.Context) (<-chan struct{}, func()) {
	events := make(chan struct{})
	return events, func() { close(events) }
}

// Published returns the number of change events recorded so far.
func (m *MockNotifier) Published() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
