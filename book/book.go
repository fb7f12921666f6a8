package book

import (
	"math"
	"time"
)

/* Sem tags: representa um livro em relação ao negócio.
 * As camadas de transporte e armazenamento têm suas próprias representações.
 */

// Book is a tracked book and its reading progress
type Book struct {
	ID            string
	Title         string
	Author        string
	SuggestedBy   string
	NumberOfPages int
	Price         float64
	PagesRead     int
	Status        Status
	Format        Format
	Finished      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplySaveInvariants clamps PagesRead to NumberOfPages and recomputes Finished.
// Every write path calls it before persisting.
func (b *Book) ApplySaveInvariants() {
	if b.PagesRead > b.NumberOfPages {
		b.PagesRead = b.NumberOfPages
	}
	b.Finished = b.PagesRead >= b.NumberOfPages
}

// ProgressPercent returns how far into the book the reader is, from 0 to 100
func (b Book) ProgressPercent() int {
	if b.NumberOfPages == 0 {
		return 0
	}
	return int(math.Round(float64(b.PagesRead) / float64(b.NumberOfPages) * 100))
}
