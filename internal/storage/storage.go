package storage

import (
	"context"
	"fmt"

	"github.com/marcelsud/book-tracker/book"
	"github.com/marcelsud/book-tracker/book/mongo"
	"github.com/marcelsud/book-tracker/book/postgres"
	"github.com/marcelsud/book-tracker/book/redis"
	"github.com/marcelsud/book-tracker/book/sqlite"
	"github.com/marcelsud/book-tracker/config"
)

/* Open escolhe a implementação de book.Repository a partir de STORE_DRIVER.
 * Quem chama Open é dono do repositório e deve chamar Close no shutdown.
 */
func Open(ctx context.Context, cfg *config.Config) (book.Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		database := cfg.MongoDatabase
		if database == "" {
			database = mongo.DatabaseFromURI(cfg.MongoURI)
		}
		repo, err := mongo.NewRepository(ctx, cfg.MongoURI, database)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return repo, nil

	case config.DriverPostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.GetPostgresMaxOpenConns(),
			cfg.GetPostgresMaxIdleConns(),
			cfg.GetPostgresConnMaxLifeMinutes(),
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err := repo.CreateTable(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, fmt.Errorf("preparing postgres store: %w", err)
		}
		return repo, nil

	case config.DriverSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repo, nil

	case config.DriverRedis:
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
