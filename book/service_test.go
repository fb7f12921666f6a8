package book_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marcelsud/book-tracker/book"
	"github.com/marcelsud/book-tracker/book/mocks" /* Gosto do https://github.com/vektra/mockery para gerar os mocks */
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* Dica: use test helpers: https://eltonminetto.dev/post/2024-02-15-using-test-helpers/ */

func storedBook(t *testing.T, id string, pages, read int) book.Book {
	t.Helper()
	b := book.Book{
		ID:            id,
		Title:         "Neuromancer",
		Author:        "William Gibson",
		SuggestedBy:   "Bob",
		NumberOfPages: pages,
		Price:         12.5,
		PagesRead:     read,
		Status:        book.CurrentlyReading,
		Format:        book.Ebook,
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	b.ApplySaveInvariants()
	return b
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	/* Usar t.Run para criar subtestes */
	t.Run("over-read pages are clamped", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		f := validFields()
		f.NumberOfPages = ptr(300)
		f.PagesRead = ptr(350)
		repo.On("Insert", ctx, mock.MatchedBy(func(b book.Book) bool {
			return b.PagesRead == 300 && b.Finished && b.Status == book.CurrentlyReading
		})).Return(func(_ context.Context, b book.Book) (book.Book, error) {
			b.ID = "new-id"
			return b, nil
		})
		s := book.NewService(repo)
		saved, err := s.Create(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, "new-id", saved.ID)
		assert.Equal(t, 300, saved.PagesRead)
		assert.True(t, saved.Finished)
	})

	t.Run("progress of an unfinished book", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		f := validFields()
		f.NumberOfPages = ptr(200)
		f.PagesRead = ptr(50)
		repo.On("Insert", ctx, mock.AnythingOfType("book.Book")).Return(func(_ context.Context, b book.Book) (book.Book, error) {
			return b, nil
		})
		s := book.NewService(repo)
		saved, err := s.Create(ctx, f)
		require.NoError(t, err)
		assert.False(t, saved.Finished)
		assert.Equal(t, 25, saved.ProgressPercent())
	})

	t.Run("client cannot mark a book finished", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Insert", ctx, mock.MatchedBy(func(b book.Book) bool {
			return !b.Finished
		})).Return(book.Book{ID: "x"}, nil)
		s := book.NewService(repo)
		_, err := s.Create(ctx, validFields())
		require.NoError(t, err)
	})

	t.Run("invalid status never reaches the store", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		f := validFields()
		f.Status = ptr("Abandoned")
		s := book.NewService(repo)
		_, err := s.Create(ctx, f)
		require.Error(t, err)
		assert.True(t, errors.Is(err, book.ErrValidation))
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Insert", ctx, mock.AnythingOfType("book.Book")).Return(book.Book{}, fmt.Errorf("connection refused"))
		s := book.NewService(repo)
		saved, err := s.Create(ctx, validFields())
		require.Error(t, err)
		assert.Empty(t, saved)
		var serr *book.StorageError
		assert.True(t, errors.As(err, &serr))
		assert.Equal(t, "inserting book", serr.Op)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		books := []book.Book{storedBook(t, "2", 100, 10), storedBook(t, "1", 100, 100)}
		repo.On("SelectAll", ctx).Return(books, nil)
		s := book.NewService(repo)
		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, books, all)
	})
	t.Run("store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("SelectAll", ctx).Return(nil, fmt.Errorf("timeout"))
		s := book.NewService(repo)
		_, err := s.List(ctx)
		var serr *book.StorageError
		assert.True(t, errors.As(err, &serr))
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	t.Run("finished and unfinished", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("SelectAll", ctx).Return([]book.Book{
			storedBook(t, "1", 300, 300),
			storedBook(t, "2", 400, 50),
		}, nil)
		s := book.NewService(repo)
		st, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, book.Stats{TotalBooksRead: 1, TotalPages: 350, TotalBooks: 2}, st)
	})
	t.Run("store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("SelectAll", ctx).Return(nil, fmt.Errorf("timeout"))
		s := book.NewService(repo)
		_, err := s.Stats(ctx)
		require.Error(t, err)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	t.Run("not found", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Select", ctx, "missing").Return(book.Book{}, book.ErrNotFound)
		s := book.NewService(repo)
		_, err := s.Get(ctx, "missing")
		assert.True(t, errors.Is(err, book.ErrNotFound))
		var serr *book.StorageError
		assert.False(t, errors.As(err, &serr))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	t.Run("merge and reapply invariants", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		current := storedBook(t, "1", 300, 100)
		repo.On("Select", ctx, "1").Return(current, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(b book.Book) bool {
			return b.ID == "1" && b.PagesRead == 300 && b.Finished && b.Title == current.Title
		})).Return(func(_ context.Context, b book.Book) (book.Book, error) {
			return b, nil
		})
		s := book.NewService(repo)
		saved, err := s.Update(ctx, "1", book.Fields{PagesRead: ptr(1000)})
		require.NoError(t, err)
		assert.Equal(t, 300, saved.PagesRead)
		assert.True(t, saved.Finished)
	})

	t.Run("shrinking the book finishes it", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Select", ctx, "1").Return(storedBook(t, "1", 300, 150), nil)
		repo.On("Update", ctx, mock.AnythingOfType("book.Book")).Return(func(_ context.Context, b book.Book) (book.Book, error) {
			return b, nil
		})
		s := book.NewService(repo)
		saved, err := s.Update(ctx, "1", book.Fields{NumberOfPages: ptr(100)})
		require.NoError(t, err)
		assert.Equal(t, 100, saved.PagesRead)
		assert.True(t, saved.Finished)
	})

	t.Run("unknown id does not write", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Select", ctx, "nope").Return(book.Book{}, book.ErrNotFound)
		s := book.NewService(repo)
		_, err := s.Update(ctx, "nope", book.Fields{Title: ptr("x")})
		assert.True(t, errors.Is(err, book.ErrNotFound))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid merge does not write", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Select", ctx, "1").Return(storedBook(t, "1", 300, 100), nil)
		s := book.NewService(repo)
		_, err := s.Update(ctx, "1", book.Fields{Format: ptr("Tablet")})
		assert.True(t, errors.Is(err, book.ErrValidation))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	t.Run("delete twice", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Select", ctx, "1").Return(storedBook(t, "1", 10, 1), nil).Once()
		repo.On("Delete", ctx, "1").Return(nil).Once()
		repo.On("Select", ctx, "1").Return(book.Book{}, book.ErrNotFound).Once()
		s := book.NewService(repo)

		require.NoError(t, s.Delete(ctx, "1"))
		err := s.Delete(ctx, "1")
		assert.True(t, errors.Is(err, book.ErrNotFound))
	})
	t.Run("store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Select", ctx, "1").Return(storedBook(t, "1", 10, 1), nil)
		repo.On("Delete", ctx, "1").Return(fmt.Errorf("disk full"))
		s := book.NewService(repo)
		err := s.Delete(ctx, "1")
		var serr *book.StorageError
		assert.True(t, errors.As(err, &serr))
	})
}
