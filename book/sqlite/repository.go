package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/book-tracker/book"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/* Embedded SQLite implementation of book.Repository, built on GORM
 * Useful for running the tracker on a single machine without a database server
 * GORM fills created_at/updated_at on every write
 */

type Repository struct {
	DB *gorm.DB
}

// record is the row shape of a book
type record struct {
	ID            string      `gorm:"primaryKey;type:text"`
	Title         string      `gorm:"not null"`
	Author        string      `gorm:"not null"`
	SuggestedBy   string      `gorm:"not null"`
	NumberOfPages int         `gorm:"not null;check:number_of_pages >= 1"`
	Price         float64     `gorm:"not null;check:price >= 0"`
	PagesRead     int         `gorm:"not null;default:0;check:pages_read >= 0"`
	Status        book.Status `gorm:"type:text;not null"`
	Format        book.Format `gorm:"type:text;not null"`
	Finished      bool        `gorm:"not null;default:false"`
	CreatedAt     time.Time   `gorm:"index"`
	UpdatedAt     time.Time
}

func (record) TableName() string {
	return "books"
}

// NewRepository opens (or creates) the database file at path and migrates the books table
func NewRepository(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrating books table: %w", err)
	}

	return &Repository{DB: db}, nil
}

func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	var rec record
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return rec.toBook(), nil
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	var recs []record
	err := r.DB.WithContext(ctx).Order("created_at DESC").Order("rowid DESC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}

	books := make([]book.Book, 0, len(recs))
	for _, rec := range recs {
		books = append(books, rec.toBook())
	}
	return books, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	rec := fromBook(b)
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Time{}
	rec.UpdatedAt = time.Time{}

	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return rec.toBook(), nil
}

func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	var saved book.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&record{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{
				"title":           b.Title,
				"author":          b.Author,
				"suggested_by":    b.SuggestedBy,
				"number_of_pages": b.NumberOfPages,
				"price":           b.Price,
				"pages_read":      b.PagesRead,
				"status":          b.Status,
				"format":          b.Format,
				"finished":        b.Finished,
			})
		if result.Error != nil {
			return fmt.Errorf("updating book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return book.ErrNotFound
		}

		var stored record
		if err := tx.Where("id = ?", b.ID).First(&stored).Error; err != nil {
			return fmt.Errorf("reloading book: %w", err)
		}
		saved = stored.toBook()
		return nil
	})
	if err != nil {
		return book.Book{}, err
	}
	return saved, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&record{})
	if result.Error != nil {
		return fmt.Errorf("deleting book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("closing sqlite database: %w", err)
	}
	return nil
}

func fromBook(b book.Book) record {
	return record{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		SuggestedBy:   b.SuggestedBy,
		NumberOfPages: b.NumberOfPages,
		Price:         b.Price,
		PagesRead:     b.PagesRead,
		Status:        b.Status,
		Format:        b.Format,
		Finished:      b.Finished,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (rec record) toBook() book.Book {
	return book.Book{
		ID:            rec.ID,
		Title:         rec.Title,
		Author:        rec.Author,
		SuggestedBy:   rec.SuggestedBy,
		NumberOfPages: rec.NumberOfPages,
		Price:         rec.Price,
		PagesRead:     rec.PagesRead,
		Status:        rec.Status,
		Format:        rec.Format,
		Finished:      rec.Finished,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}
