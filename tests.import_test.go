package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImportBooks_PartialBatch ensures rows missing a field are skipped
// while the valid rows land in the store, with one event for the batch.
func TestImportBooks_PartialBatch(t *testing.T) {
	bs, notifier := newTestBookService(t)

	content := []byte("Title,Author,Genre\n" +
		"The Great Gatsby,F. Scott Fitzgerald,Fiction\n" +
		"1984,,Dystopian\n" +
		"The Hobbit,J.R.R. Tolkien,Fantasy\n" +
		"Animal Farm,,Satire\n" +
		"Moby-Dick,Herman Melville,Adventure\n")

	imported, err := bs.ImportBooks(context.Background(), content)
	require.NoError(t, err)
	assert.True(t, imported)
	assert.Equal(t, 1, notifier.Published())

	result, err := bs.GetBooks(context.Background(), BookQueryParameters{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	titles := make([]string, 0, len(result.Books))
	for _, b := range result.Books {
		titles = append(titles, b.Title)
	}
	assert.Equal(t, []string{"The Great Gatsby", "The Hobbit", "Moby-Dick"}, titles)
}

// TestImportBooks_HeaderRules ensures only the exact Title,Author,Genre
// header is accepted and that a rejected file never publishes.
func TestImportBooks_HeaderRules(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"reordered columns", "Author,Title,Genre\nGeorge Orwell,1984,Dystopian\n"},
		{"lowercase header", "title,author,genre\n1984,George Orwell,Dystopian\n"},
		{"missing column", "Title,Author\n1984,George Orwell\n"},
		{"extra column", "Title,Author,Genre,Year\n1984,George Orwell,Dystopian,1949\n"},
		{"data without header", "1984,George Orwell,Dystopian\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bs, notifier := newTestBookService(t)
			imported, err := bs.ImportBooks(context.Background(), []byte(tc.content))
			require.NoError(t, err)
			assert.False(t, imported)
			assert.Equal(t, 0, notifier.Published())

			result, err := bs.GetBooks(context.Background(), BookQueryParameters{PageNumber: 1, PageSize: 10})
			require.NoError(t, err)
			assert.Zero(t, result.TotalCount)
		})
	}
}

// TestImportBooks_EmptyInputs covers the degenerate payloads: no bytes,
// header with zero data rows, and a batch where every row is skipped.
func TestImportBooks_EmptyInputs(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		bs, notifier := newTestBookService(t)
		imported, err := bs.ImportBooks(context.Background(), nil)
		require.NoError(t, err)
		assert.False(t, imported)
		assert.Equal(t, 0, notifier.Published())
	})

	t.Run("header only", func(t *testing.T) {
		bs, notifier := newTestBookService(t)
		imported, err := bs.ImportBooks(context.Background(), []byte("Title,Author,Genre\n"))
		require.NoError(t, err)
		assert.False(t, imported)
		assert.Equal(t, 0, notifier.Published())
	})

	t.Run("all rows skipped still reports success without event", func(t *testing.T) {
		bs, notifier := newTestBookService(t)
		imported, err := bs.ImportBooks(context.Background(), []byte("Title,Author,Genre\n,,\n1984,,Dystopian\n"))
		require.NoError(t, err)
		assert.True(t, imported)
		assert.Equal(t, 0, notifier.Published())

		result, err := bs.GetBooks(context.Background(), BookQueryParameters{PageNumber: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Zero(t, result.TotalCount)
	})
}

// TestImportBooks_StructuralErrors ensures corrupt csv aborts the whole
// batch with ErrImportParse and leaves no partial state behind.
func TestImportBooks_StructuralErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"ragged row", "Title,Author,Genre\n1984,George Orwell,Dystopian\nThe Hobbit,J.R.R. Tolkien\n"},
		{"unterminated quote", "Title,Author,Genre\n\"1984,George Orwell,Dystopian\n"},
		{"bare quote inside field", "Title,Author,Genre\n19\"84,George Orwell,Dystopian\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bs, notifier := newTestBookService(t)
			imported, err := bs.ImportBooks(context.Background(), []byte(tc.content))
			assert.ErrorIs(t, err, ErrImportParse)
			assert.False(t, imported)
			assert.Equal(t, 0, notifier.Published())

			// the valid first row must not have been applied.
			result, err := bs.GetBooks(context.Background(), BookQueryParameters{PageNumber: 1, PageSize: 10})
			require.NoError(t, err)
			assert.Zero(t, result.TotalCount)
		})
	}
}

// TestImportBooks_FieldNormalization ensures surrounding whitespace is
// trimmed from applied fields, while the emptiness check runs on the
// raw value so a blank-only field slips past it.
func TestImportBooks_FieldNormalization(t *testing.T) {
	bs, _ := newTestBookService(t)

	content := []byte("Title,Author,Genre\n" +
		"  1984  , George Orwell ,Dystopian\n" +
		"   ,Unknown,Mystery\n")

	imported, err := bs.ImportBooks(context.Background(), content)
	require.NoError(t, err)
	assert.True(t, imported)

	result, err := bs.GetBooks(context.Background(), BookQueryParameters{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalCount)
	assert.Equal(t, "1984", result.Books[0].Title)
	assert.Equal(t, "George Orwell", result.Books[0].Author)
	// blank-only title is not empty before trimming, so the row lands
	// in the store with an empty title.
	assert.Equal(t, "", result.Books[1].Title)
	assert.Equal(t, "Unknown", result.Books[1].Author)
}

// TestImportBooks_ByteOrderMark ensures a UTF-8 BOM prefix does not
// break the header match.
func TestImportBooks_ByteOrderMark(t *testing.T) {
	bs, notifier := newTestBookService(t)

	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Title,Author,Genre\n1984,George Orwell,Dystopian\n")...)
	imported, err := bs.ImportBooks(context.Background(), content)
	require.NoError(t, err)
	assert.True(t, imported)
	assert.Equal(t, 1, notifier.Published())
}
