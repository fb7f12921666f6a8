package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/book-tracker/book"
)

/*
PostgreSQL Repository Implementation

- Mesmo Repository interface do MongoDB, SQLite e Redis
- Placeholders ($1, $2) ao invés de (?)
- O id é um UUID gerado pela aplicação, guardado como TEXT: ids malformados viram "não encontrado"
- created_at/updated_at são mantidos pelo banco (DEFAULT NOW() / SET updated_at = NOW())
*/

type Repository struct {
	DB *sql.DB
}

const columns = "id, title, author, suggested_by, number_of_pages, price, pages_read, status, format, finished, created_at, updated_at"

// NewRepository cria uma nova instância do repositório PostgreSQL com pool padrão (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig cria uma nova instância do repositório PostgreSQL com configuração customizável
// maxOpenConns: máximo de conexões simultâneas (0 = ilimitado)
// maxIdleConns: máximo de conexões inativas mantidas no pool
// maxLifeMinutes: duração máxima em minutos que uma conexão pode ser reutilizada
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (book.Book, error) {
	var b book.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.SuggestedBy,
		&b.NumberOfPages,
		&b.Price,
		&b.PagesRead,
		&b.Status,
		&b.Format,
		&b.Finished,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// Select busca um livro por ID
func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	query := "SELECT " + columns + " FROM books WHERE id = $1"

	b, err := scanBook(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}

	return b, nil
}

// SelectAll retorna todos os livros, os mais recentes primeiro
func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	query := "SELECT " + columns + " FROM books ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

// Insert insere um novo livro e retorna o livro com id e timestamps
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	query := `
		INSERT INTO books (id, title, author, suggested_by, number_of_pages, price, pages_read, status, format, finished)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	b.ID = uuid.NewString()
	err := r.DB.QueryRowContext(ctx, query,
		b.ID, b.Title, b.Author, b.SuggestedBy, b.NumberOfPages, b.Price, b.PagesRead, b.Status, b.Format, b.Finished,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}

	return b, nil
}

// Update sobrescreve um livro existente
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	query := `
		UPDATE books
		SET title = $1, author = $2, suggested_by = $3, number_of_pages = $4, price = $5,
			pages_read = $6, status = $7, format = $8, finished = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		b.Title, b.Author, b.SuggestedBy, b.NumberOfPages, b.Price, b.PagesRead, b.Status, b.Format, b.Finished, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}

	return b, nil
}

// Delete remove um livro por ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM books WHERE id = $1"

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rows == 0 {
		return book.ErrNotFound
	}

	return nil
}

// Close fecha a conexão com o banco de dados
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable cria a tabela books se ela ainda não existir
func (r *Repository) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			suggested_by TEXT NOT NULL,
			number_of_pages INTEGER NOT NULL CHECK (number_of_pages >= 1),
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			pages_read INTEGER NOT NULL DEFAULT 0 CHECK (pages_read >= 0),
			status TEXT NOT NULL,
			format TEXT NOT NULL,
			finished BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	return nil
}

// DropTable remove a tabela books (útil para testes)
func (r *Repository) DropTable(ctx context.Context) error {
	query := "DROP TABLE IF EXISTS books CASCADE"

	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}

	return nil
}
