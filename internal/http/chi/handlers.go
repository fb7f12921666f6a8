package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-tracker/book"
	"github.com/marcelsud/book-tracker/metrics"
	"github.com/rs/zerolog"
)

// Options holds the optional collaborators of the HTTP layer
type Options struct {
	// Logger receives one line per request and every 5xx cause
	Logger zerolog.Logger
	// StaticDir, when set, is served at /
	StaticDir string
	// Metrics, when set, counts requests and serves /metrics
	Metrics *metrics.OTelExporter
}

func Handlers(ctx context.Context, bookService book.UseCase, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Route("/api/books", func(r chi.Router) {
		r.Method(http.MethodGet, "/", getBooks(bookService))
		r.Method(http.MethodGet, "/stats", getStats(bookService))
		r.Method(http.MethodPost, "/", postBook(bookService))
		r.Method(http.MethodGet, "/{id}", getBook(bookService))
		r.Method(http.MethodPut, "/{id}", putBook(bookService))
		r.Method(http.MethodDelete, "/{id}", deleteBook(bookService))
	})

	// Front-end
	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}
