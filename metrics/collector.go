package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/book-tracker/book"
)

// BookCollector implements the Collector interface on top of the book service,
// so it works with whichever store is configured
type BookCollector struct {
	books book.UseCase
}

// NewBookCollector creates a new metrics collector
func NewBookCollector(books book.UseCase) *BookCollector {
	return &BookCollector{
		books: books,
	}
}

// Collect lists every book once and aggregates it
func (c *BookCollector) Collect(ctx context.Context) (Metrics, error) {
	all, err := c.books.List(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("listing books: %w", err)
	}

	stats := book.Summarize(all)
	m := Metrics{
		TotalBooks:     int64(stats.TotalBooks),
		TotalBooksRead: int64(stats.TotalBooksRead),
		TotalPages:     int64(stats.TotalPages),
		StatusCounts:   make(map[string]int64, len(book.Statuses)),
		FormatCounts:   make(map[string]int64, len(book.Formats)),
		Timestamp:      time.Now(),
	}

	// Every enum member is reported, even with zero books
	for _, s := range book.Statuses {
		m.StatusCounts[s.String()] = 0
	}
	for _, f := range book.Formats {
		m.FormatCounts[f.String()] = 0
	}
	for _, b := range all {
		m.StatusCounts[b.Status.String()]++
		m.FormatCounts[b.Format.String()]++
	}

	return m, nil
}
