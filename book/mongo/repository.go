package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/book-tracker/book"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

/* MongoDB implementation of book.Repository
 * One document per book in the "books" collection, ids are ObjectIDs
 * createdAt/updatedAt are kept by the repository on every write
 */

const (
	collectionName  = "books"
	defaultDatabase = "book-tp"
)

type Repository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// document is the stored shape of a book
type document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	NumberOfPages int                `bson:"numberOfPages"`
	Status        string             `bson:"status"`
	Price         float64            `bson:"price"`
	PagesRead     int                `bson:"pagesRead"`
	Format        string             `bson:"format"`
	SuggestedBy   string             `bson:"suggestedBy"`
	Finished      bool               `bson:"finished"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// NewRepository connects to uri. An empty database falls back to the one named in the uri,
// then to "book-tp".
func NewRepository(ctx context.Context, uri, database string) (*Repository, error) {
	if database == "" {
		database = DatabaseFromURI(uri)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	return &Repository{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

// NewRepositoryWithCollection wraps an existing collection, the caller owns the client
func NewRepositoryWithCollection(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// DatabaseFromURI returns the database path of a MongoDB connection string
func DatabaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return defaultDatabase
	}
	return cs.Database
}

func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book.Book{}, book.ErrNotFound
	}

	var doc document
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("finding book: %w", err)
	}

	return doc.toBook()
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding books: %w", err)
	}
	defer cursor.Close(ctx)

	books := []book.Book{}
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding book: %w", err)
		}
		b, err := doc.toBook()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := fromBook(b)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}

	return doc.toBook()
}

// Update sets every mutable field of b on the stored document
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return book.Book{}, book.ErrNotFound
	}

	doc := fromBook(b)
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": bson.M{
		"title":         doc.Title,
		"author":        doc.Author,
		"numberOfPages": doc.NumberOfPages,
		"status":        doc.Status,
		"price":         doc.Price,
		"pagesRead":     doc.PagesRead,
		"format":        doc.Format,
		"suggestedBy":   doc.SuggestedBy,
		"finished":      doc.Finished,
		"updatedAt":     doc.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var saved document
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&saved)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}

	return saved.toBook()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return book.ErrNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if result.DeletedCount == 0 {
		return book.ErrNotFound
	}

	return nil
}

// Close disconnects the client created by NewRepository
func (r *Repository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from MongoDB: %w", err)
	}
	return nil
}

// DropCollection removes every book (useful for tests)
func (r *Repository) DropCollection(ctx context.Context) error {
	if err := r.coll.Drop(ctx); err != nil {
		return fmt.Errorf("dropping collection: %w", err)
	}
	return nil
}

func fromBook(b book.Book) document {
	return document{
		Title:         b.Title,
		Author:        b.Author,
		NumberOfPages: b.NumberOfPages,
		Status:        b.Status.String(),
		Price:         b.Price,
		PagesRead:     b.PagesRead,
		Format:        b.Format.String(),
		SuggestedBy:   b.SuggestedBy,
		Finished:      b.Finished,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (d document) toBook() (book.Book, error) {
	status, err := book.ParseStatus(d.Status)
	if err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s: %w", d.ID.Hex(), err)
	}
	format, err := book.ParseFormat(d.Format)
	if err != nil {
		return book.Book{}, fmt.Errorf("decoding book %s: %w", d.ID.Hex(), err)
	}
	return book.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		SuggestedBy:   d.SuggestedBy,
		NumberOfPages: d.NumberOfPages,
		Price:         d.Price,
		PagesRead:     d.PagesRead,
		Status:        status,
		Format:        format,
		Finished:      d.Finished,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}
