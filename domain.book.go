package main

import "context"

// Book represents a catalog entry. Its ID is assigned by the record
// store at creation time and is immutable afterwards.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	Genre  string `json:"genre" binding:"required"`
}

// ImportRecord is a raw unvalidated row read from an uploaded csv
// file. It only exists while an import pass is running.
type ImportRecord struct {
	Title  string
	Author string
	Genre  string
}

// BookStorage defines possible operations on the books record store.
// Add assigns the new record identity and returns the persisted shape.
type BookStorage interface {
	Add(ctx context.Context, book Book) (Book, error)
	GetOne(ctx context.Context, id int) (Book, error)
	Update(ctx context.Context, id int, book Book) (Book, error)
	Delete(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]Book, error)
}
