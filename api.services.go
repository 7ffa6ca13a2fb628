package main

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// BookServiceProvider exposes the query and mutation operations
// available on the books catalog.
type BookServiceProvider interface {
	GetBooks(ctx context.Context, params BookQueryParameters) (BookResult, error)
	GetOne(ctx context.Context, id int) (Book, error)
	Add(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, id int, book Book) (Book, error)
	Delete(ctx context.Context, id int) error
	ImportBooks(ctx context.Context, content []byte) (bool, error)
}

// BookService implements the catalog query pipeline and the single
// record mutations. Update and Delete publish exactly one change event
// on success while Add publishes none: observers of the notification
// channel rely on that asymmetry, so it is kept as an explicit contract.
type BookService struct {
	logger   *zap.Logger
	config   *Config
	storage  BookStorage
	notifier Notifier
}

func NewBookService(logger *zap.Logger, config *Config, storage BookStorage, notifier Notifier) BookServiceProvider {
	return &BookService{
		logger:   logger,
		config:   config,
		storage:  storage,
		notifier: notifier,
	}
}

// GetBooks runs the read pipeline: filter, sort then paginate over the
// full record set. The total count is computed before pagination so it
// is never affected by pageNumber or pageSize.
func (bs *BookService) GetBooks(ctx context.Context, params BookQueryParameters) (BookResult, error) {
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return BookResult{}, err
	}

	books = applySearchFilters(books, params)
	bs.applySorting(books, params)

	total := len(books)
	return BookResult{
		Books:      paginate(books, params.PageNumber, params.PageSize),
		TotalCount: total,
	}, nil
}

func (bs *BookService) GetOne(ctx context.Context, id int) (Book, error) {
	return bs.storage.GetOne(ctx, id)
}

// Add inserts a new record and returns the persisted shape with the
// identity assigned by the store. It does not publish a change event.
func (bs *BookService) Add(ctx context.Context, book Book) (Book, error) {
	return bs.storage.Add(ctx, book)
}

// Update overwrites title/author/genre of an existing record and
// publishes one change event on success.
func (bs *BookService) Update(ctx context.Context, id int, book Book) (Book, error) {
	current, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}

	current.Title = book.Title
	current.Author = book.Author
	current.Genre = book.Genre

	updated, err := bs.storage.Update(ctx, id, current)
	if err != nil {
		return Book{}, err
	}
	bs.publish(ctx)
	return updated, nil
}

// Delete removes an existing record and publishes one change event on
// success. An unknown id surfaces as ErrBookNotFound with no event.
func (bs *BookService) Delete(ctx context.Context, id int) error {
	if _, err := bs.storage.GetOne(ctx, id); err != nil {
		return err
	}
	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}
	bs.publish(ctx)
	return nil
}

// publish pushes one change event to the notification gateway. Delivery
// is fire-and-forget: failures are logged and never surface to callers.
func (bs *BookService) publish(ctx context.Context) {
	if err := bs.notifier.Publish(ctx); err != nil {
		bs.logger.Error("service: failed to publish change event", zap.Error(err))
	}
}

// applySearchFilters reproduces the catalog search contract. With all
// three filters supplied, the title value becomes a single search term
// matched against title OR author OR genre and the author/genre values
// are ignored. Any other combination applies the supplied fields as
// independent case-insensitive substring filters, ANDed together.
func applySearchFilters(books []Book, params BookQueryParameters) []Book {
	if params.Title == "" && params.Author == "" && params.Genre == "" {
		return books
	}

	searchAll := params.Title != "" && params.Author != "" && params.Genre != ""

	filtered := make([]Book, 0, len(books))
	if searchAll {
		term := params.Title
		for _, b := range books {
			if containsFold(b.Title, term) || containsFold(b.Author, term) || containsFold(b.Genre, term) {
				filtered = append(filtered, b)
			}
		}
		return filtered
	}

	for _, b := range books {
		if params.Title != "" && !containsFold(b.Title, params.Title) {
			continue
		}
		if params.Author != "" && !containsFold(b.Author, params.Author) {
			continue
		}
		if params.Genre != "" && !containsFold(b.Genre, params.Genre) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// applySorting orders books ascending by the requested field with a
// case-insensitive key. The sort is stable so equal keys keep their
// store order. An unrecognized field is logged and leaves the set
// unsorted instead of failing the request.
func (bs *BookService) applySorting(books []Book, params BookQueryParameters) {
	if params.SortBy == "" {
		return
	}

	var key func(Book) string
	switch strings.ToLower(params.SortBy) {
	case "title":
		key = func(b Book) string { return strings.ToLower(b.Title) }
	case "author":
		key = func(b Book) string { return strings.ToLower(b.Author) }
	case "genre":
		key = func(b Book) string { return strings.ToLower(b.Genre) }
	default:
		bs.logger.Error("service: invalid sort field", zap.String("query.sortby", params.SortBy))
		return
	}

	sort.SliceStable(books, func(i, j int) bool {
		return key(books[i]) < key(books[j])
	})
}

// paginate slices out one page after filtering and sorting, with
// skip/take semantics: a negative skip behaves as zero and a
// non-positive page size yields an empty page.
func paginate(books []Book, pageNumber, pageSize int) []Book {
	skip := (pageNumber - 1) * pageSize
	if skip < 0 {
		skip = 0
	}
	if skip >= len(books) || pageSize <= 0 {
		return []Book{}
	}

	end := skip + pageSize
	if end > len(books) {
		end = len(books)
	}
	return books[skip:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
