package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcelsud/book-tracker/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close(context.Background())
	})

	return repo
}

func testBook(title string, pages, read int) book.Book {
	b := book.Book{
		Title:         title,
		Author:        "Terry Pratchett",
		SuggestedBy:   "Frank",
		NumberOfPages: pages,
		Price:         8.5,
		PagesRead:     read,
		Status:        book.CurrentlyReading,
		Format:        book.Print,
	}
	b.ApplySaveInvariants()
	return b
}

func TestRepository_Insert(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	saved, err := repo.Insert(ctx, testBook("Guards! Guards!", 416, 30))

	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
	assert.Equal(t, book.CurrentlyReading, saved.Status)
}

func TestRepository_Insert_IgnoresClientTimestamps(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	b := testBook("Mort", 272, 0)
	b.CreatedAt = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	saved, err := repo.Insert(ctx, b)

	require.NoError(t, err)
	assert.True(t, saved.CreatedAt.After(b.CreatedAt))
}

func TestRepository_Select(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	t.Run("existing book", func(t *testing.T) {
		saved, err := repo.Insert(ctx, testBook("Small Gods", 384, 384))
		require.NoError(t, err)

		found, err := repo.Select(ctx, saved.ID)

		require.NoError(t, err)
		assert.Equal(t, saved.ID, found.ID)
		assert.Equal(t, "Small Gods", found.Title)
		assert.Equal(t, "Frank", found.SuggestedBy)
		assert.Equal(t, 8.5, found.Price)
		assert.Equal(t, book.CurrentlyReading, found.Status)
		assert.Equal(t, book.Print, found.Format)
		assert.True(t, found.Finished)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.Select(ctx, "nope")
		assert.ErrorIs(t, err, book.ErrNotFound)
	})
}

func TestRepository_SelectAll(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		all, err := repo.SelectAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("newest first", func(t *testing.T) {
		for _, title := range []string{"Equal Rites", "Wyrd Sisters", "Witches Abroad"} {
			_, err := repo.Insert(ctx, testBook(title, 200, 0))
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}

		all, err := repo.SelectAll(ctx)

		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Witches Abroad", all[0].Title)
		assert.Equal(t, "Wyrd Sisters", all[1].Title)
		assert.Equal(t, "Equal Rites", all[2].Title)
	})
}

func TestRepository_Update(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	t.Run("writes every field", func(t *testing.T) {
		saved, err := repo.Insert(ctx, testBook("Night Watch", 480, 10))
		require.NoError(t, err)

		saved.Title = "Night Watch (Discworld)"
		saved.PagesRead = 0
		saved.Status = book.WantToRead
		saved.Format = book.AudioBook
		saved.ApplySaveInvariants()
		time.Sleep(5 * time.Millisecond)

		updated, err := repo.Update(ctx, saved)

		require.NoError(t, err)
		assert.Equal(t, "Night Watch (Discworld)", updated.Title)
		assert.Equal(t, 0, updated.PagesRead)
		assert.Equal(t, book.WantToRead, updated.Status)
		assert.Equal(t, book.AudioBook, updated.Format)
		assert.False(t, updated.Finished)
		assert.True(t, updated.UpdatedAt.After(saved.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(saved.CreatedAt))
	})

	t.Run("unknown id", func(t *testing.T) {
		b := testBook("Ghost", 10, 0)
		b.ID = "missing"
		_, err := repo.Update(ctx, b)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	saved, err := repo.Insert(ctx, testBook("Thud!", 448, 0))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), book.ErrNotFound)

	_, err = repo.Select(ctx, saved.ID)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestRepository_CheckConstraints(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	b := testBook("Broken", 10, 0)
	b.Price = -1

	_, err := repo.Insert(ctx, b)

	assert.Error(t, err)
}
