package main

import (
	"context"

	"go.uber.org/zap"
)

// seedBooks is the initial catalog loaded on startup when seeding is
// enabled and the store is still empty.
var seedBooks = []Book{
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction"},
	{Title: "1984", Author: "George Orwell", Genre: "Dystopian"},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction"},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Genre: "Fiction"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance"},
	{Title: "Moby-Dick", Author: "Herman Melville", Genre: "Adventure"},
	{Title: "War and Peace", Author: "Leo Tolstoy", Genre: "Historical Fiction"},
	{Title: "The Odyssey", Author: "Homer", Genre: "Epic"},
}

// SeedBookStorage inserts the initial catalog when the store holds no
// record yet. It is a no-op on a non-empty store.
func SeedBookStorage(ctx context.Context, logger *zap.Logger, storage BookStorage) error {
	books, err := storage.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(books) > 0 {
		return nil
	}
	for _, book := range seedBooks {
		if _, err := storage.Add(ctx, book); err != nil {
			return err
		}
	}
	logger.Info("storage seeded with initial catalog", zap.Int("books", len(seedBooks)))
	return nil
}
