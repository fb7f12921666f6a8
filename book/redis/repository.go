package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/book-tracker/book"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of book.Repository
 * Uses one Redis Hash per book for the fields
 * Uses a Sorted Set scored by creation time to list books newest first
 */

const (
	hashPrefix = "book"          // Hash naming: book:{book_id}
	createdKey = "books:created" // Sorted set of book ids, score = created_at in nanoseconds
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

func hashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	fields, err := r.client.HGetAll(ctx, hashKey(id)).Result()
	if err != nil {
		return book.Book{}, fmt.Errorf("getting book: %w", err)
	}
	if len(fields) == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return fromHash(id, fields)
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	ids, err := r.client.ZRevRange(ctx, createdKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing book ids: %w", err)
	}

	books := make([]book.Book, 0, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, hashKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("getting books: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		// Deleted between ZREVRANGE and HGETALL
		if len(fields) == 0 {
			continue
		}
		b, err := fromHash(ids[i], fields)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}

	return books, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey(b.ID), toHash(b))
		pipe.ZAdd(ctx, createdKey, redis.Z{Score: float64(now.UnixNano()), Member: b.ID})
		return nil
	})
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book: %w", err)
	}

	return b, nil
}

// Update overwrites a stored book. WATCH makes the existence check and the write atomic.
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	key := hashKey(b.ID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		created, err := tx.HGet(ctx, key, "created_at").Result()
		if errors.Is(err, redis.Nil) {
			return book.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting book: %w", err)
		}
		createdAt, err := parseTime(created)
		if err != nil {
			return fmt.Errorf("decoding book %s: %w", b.ID, err)
		}

		b.CreatedAt = createdAt
		b.UpdatedAt = time.Now().UTC()
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, toHash(b))
			return nil
		})
		return err
	}, key)
	if errors.Is(err, book.ErrNotFound) {
		return book.Book{}, err
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}

	return b, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, hashKey(id))
		pipe.ZRem(ctx, createdKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if del.Val() == 0 {
		return book.ErrNotFound
	}
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

func toHash(b book.Book) map[string]interface{} {
	return map[string]interface{}{
		"title":           b.Title,
		"author":          b.Author,
		"suggested_by":    b.SuggestedBy,
		"number_of_pages": b.NumberOfPages,
		"price":           strconv.FormatFloat(b.Price, 'f', -1, 64),
		"pages_read":      b.PagesRead,
		"status":          b.Status.String(),
		"format":          b.Format.String(),
		"finished":        strconv.FormatBool(b.Finished),
		"created_at":      strconv.FormatInt(b.CreatedAt.UnixNano(), 10),
		"updated_at":      strconv.FormatInt(b.UpdatedAt.UnixNano(), 10),
	}
}

func fromHash(id string, fields map[string]string) (book.Book, error) {
	b := book.Book{
		ID:          id,
		Title:       fields["title"],
		Author:      fields["author"],
		SuggestedBy: fields["suggested_by"],
	}

	var err error
	if b.NumberOfPages, err = strconv.Atoi(fields["number_of_pages"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s number_of_pages: %w", id, err)
	}
	if b.PagesRead, err = strconv.Atoi(fields["pages_read"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s pages_read: %w", id, err)
	}
	if b.Price, err = strconv.ParseFloat(fields["price"], 64); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s price: %w", id, err)
	}
	if b.Finished, err = strconv.ParseBool(fields["finished"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s finished: %w", id, err)
	}
	if b.Status, err = book.ParseStatus(fields["status"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s: %w", id, err)
	}
	if b.Format, err = book.ParseFormat(fields["format"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s: %w", id, err)
	}
	if b.CreatedAt, err = parseTime(fields["created_at"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s created_at: %w", id, err)
	}
	if b.UpdatedAt, err = parseTime(fields["updated_at"]); err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s updated_at: %w", id, err)
	}

	return b, nil
}

func parseTime(s string) (time.Time, error) {
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}
