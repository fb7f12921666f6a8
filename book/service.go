package book

import (
	"context"
	"fmt"
)

/*
 * Se a struct representa uma API deveria ser pointer (ex: Service).
 * O Service não guarda estado entre requisições, apenas o repositório injetado.
 */

// Stats summarizes the whole library
type Stats struct {
	TotalBooksRead int
	TotalPages     int
	TotalBooks     int
}

type UseCase interface {
	List(ctx context.Context) ([]Book, error)
	Stats(ctx context.Context) (Stats, error)
	Get(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, fields Fields) (Book, error)
	Update(ctx context.Context, id string, fields Fields) (Book, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	all, err := s.Repo.SelectAll(ctx)
	if err != nil {
		return nil, storageError("selecting books", err)
	}
	return all, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.Repo.SelectAll(ctx)
	if err != nil {
		return Stats{}, storageError("selecting books", err)
	}
	return Summarize(all), nil
}

// Summarize counts finished books and pages read over books
func Summarize(books []Book) Stats {
	st := Stats{TotalBooks: len(books)}
	for _, b := range books {
		if b.Finished {
			st.TotalBooksRead++
		}
		st.TotalPages += b.PagesRead
	}
	return st
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	b, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, storageError("selecting book", err)
	}
	return b, nil
}

func (s *Service) Create(ctx context.Context, fields Fields) (Book, error) {
	b, err := Construct(fields)
	if err != nil {
		return Book{}, fmt.Errorf("building book: %w", err)
	}
	b.ApplySaveInvariants()
	saved, err := s.Repo.Insert(ctx, b)
	if err != nil {
		return Book{}, storageError("inserting book", err)
	}
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id string, fields Fields) (Book, error) {
	current, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, storageError("selecting book", err)
	}
	b, err := current.Merge(fields)
	if err != nil {
		return Book{}, fmt.Errorf("merging book: %w", err)
	}
	b.ApplySaveInvariants()
	saved, err := s.Repo.Update(ctx, b)
	if err != nil {
		return Book{}, storageError("updating book", err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Repo.Select(ctx, id); err != nil {
		return storageError("selecting book", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return storageError("deleting book", err)
	}
	return nil
}
