package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/book-tracker/book"
	"github.com/marcelsud/book-tracker/book/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func library() []book.Book {
	return []book.Book{
		{ID: "1", NumberOfPages: 300, PagesRead: 300, Finished: true, Status: book.Read, Format: book.Print},
		{ID: "2", NumberOfPages: 200, PagesRead: 50, Status: book.CurrentlyReading, Format: book.Ebook},
		{ID: "3", NumberOfPages: 120, PagesRead: 0, Status: book.WantToRead, Format: book.Ebook},
	}
}

func TestBookCollector_Collect(t *testing.T) {
	t.Run("aggregates every book", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything).Return(library(), nil)

		m, err := NewBookCollector(s).Collect(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), m.TotalBooks)
		assert.Equal(t, int64(1), m.TotalBooksRead)
		assert.Equal(t, int64(350), m.TotalPages)
		assert.Equal(t, int64(1), m.StatusCounts["Read"])
		assert.Equal(t, int64(1), m.StatusCounts["Currently reading"])
		assert.Equal(t, int64(0), m.StatusCounts["DNF"])
		assert.Len(t, m.StatusCounts, len(book.Statuses))
		assert.Equal(t, int64(2), m.FormatCounts["Ebook"])
		assert.Equal(t, int64(0), m.FormatCounts["AudioBook"])
		assert.Len(t, m.FormatCounts, len(book.Formats))
		assert.False(t, m.Timestamp.IsZero())
	})

	t.Run("empty library", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything).Return([]book.Book{}, nil)

		m, err := NewBookCollector(s).Collect(context.Background())

		require.NoError(t, err)
		assert.Zero(t, m.TotalBooks)
		assert.Zero(t, m.TotalPages)
		assert.Equal(t, int64(0), m.StatusCounts["Want to read"])
	})

	t.Run("service error", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

		_, err := NewBookCollector(s).Collect(context.Background())

		assert.ErrorContains(t, err, "listing books")
	})
}
