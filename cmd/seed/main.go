package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-tracker/book"
	"github.com/marcelsud/book-tracker/config"
	"github.com/marcelsud/book-tracker/internal/storage"
	"github.com/marcelsud/book-tracker/seed"
)

/* seed - imports books.yaml into the configured store
 * Usage: go run cmd/seed/main.go [books.yaml]
 * The whole file is validated before the first insert.
 */

func main() {
	seedFile := "books.yaml"
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}

	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := httplog.NewLogger("book-tracker-seed", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
	})

	loader := seed.NewLoader()
	if err := loader.Load(seedFile); err != nil {
		logger.Error().Err(err).Str("file", seedFile).Msg("invalid seed file")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("opening store")
		os.Exit(1)
	}
	defer repo.Close(context.Background())

	created, err := loader.Import(ctx, book.NewService(repo))
	for _, b := range created {
		logger.Info().Str("id", b.ID).Str("title", b.Title).Msg("book imported")
	}
	if err != nil {
		logger.Error().Err(err).Int("imported", len(created)).Msg("seed aborted")
		repo.Close(context.Background())
		os.Exit(1)
	}
	logger.Info().Int("imported", len(created)).Str("driver", cfg.StoreDriver).Msg("seed complete")
}
