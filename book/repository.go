package book

import "context"

/* Interfaces pequenas */

/*
 * Quando uma struct representa DADOS deveria usar sempre value semantics e não pointer (ex: Book) .
 * Se a struct representa uma API deveria ser pointer (ex: Service).
 */

/* Interfaces abstraem comportamento e não coisas */

// Reader looks books up. Select returns ErrNotFound for unknown or malformed ids.
type Reader interface {
	Select(ctx context.Context, id string) (Book, error)
	// SelectAll returns every book, newest first
	SelectAll(ctx context.Context) ([]Book, error)
}

// Writer persists books. The store assigns ids and timestamps.
type Writer interface {
	Insert(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, id string) error
}

/* Composição de interfaces */

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
