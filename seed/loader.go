package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/marcelsud/book-tracker/book"
	"gopkg.in/yaml.v3"
)

/* Loader manages book fixtures from books.yaml
 * Every entry is validated with the same rules as POST /api/books before anything is imported
 */

// Config represents the structure of books.yaml
type Config struct {
	Books []Entry `yaml:"books"`
}

// Loader holds the loaded entries in file order
type Loader struct {
	entries []Entry
}

// NewLoader creates a new seed loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses and validates the seed file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	return l.Parse(data)
}

// Parse parses and validates seed YAML. Unknown keys are rejected.
func (l *Loader) Parse(data []byte) error {
	var config Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing seed YAML: %w", err)
	}

	for i, e := range config.Books {
		if _, err := e.Preview(); err != nil {
			return fmt.Errorf("validating entry %d (%s): %w", i+1, e.Name(), err)
		}
	}

	l.entries = config.Books
	return nil
}

// List returns all loaded entries in file order
func (l *Loader) List() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Import creates every loaded entry through the book service, in file order.
// It stops at the first failure and returns the books created so far.
func (l *Loader) Import(ctx context.Context, books book.UseCase) ([]book.Book, error) {
	created := make([]book.Book, 0, len(l.entries))
	for i, e := range l.entries {
		b, err := books.Create(ctx, e.Fields())
		if err != nil {
			return created, fmt.Errorf("importing entry %d (%s): %w", i+1, e.Name(), err)
		}
		created = append(created, b)
	}
	return created, nil
}
