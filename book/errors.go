package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an operation targets an id the store does not have
	ErrNotFound = errors.New("book not found")
	// ErrValidation is wrapped by every ValidationError
	ErrValidation = errors.New("validation failed")
)

// FieldError describes why a single field was rejected
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError lists every field rejected while building or merging a book
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Has reports whether field was rejected
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) MarshalJSON() ([]byte, error) {
	fields := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		fields[f.Field] = f.Reason
	}
	return json.Marshal(struct {
		Name   string            `json:"name"`
		Errors map[string]string `json:"errors"`
	}{
		Name:   "ValidationError",
		Errors: fields,
	})
}

func (e *ValidationError) sort() {
	sort.SliceStable(e.Fields, func(i, j int) bool {
		return e.Fields[i].Field < e.Fields[j].Field
	})
}

// StorageError wraps a failure of the underlying store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageError keeps ErrNotFound visible to callers and tags everything else as a store failure
func storageError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &StorageError{Op: op, Err: err}
}
