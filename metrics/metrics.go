package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the library.
type Metrics struct {
	// TotalBooks is the number of stored books
	TotalBooks int64 `json:"total_books"`

	// TotalBooksRead is the number of finished books
	TotalBooksRead int64 `json:"total_books_read"`

	// TotalPages is the sum of pages read over every book
	TotalPages int64 `json:"total_pages"`

	// StatusCounts maps status name to count of books in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// FormatCounts maps format name to count of books in that format
	FormatCounts map[string]int64 `json:"format_counts"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the library.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)
}
