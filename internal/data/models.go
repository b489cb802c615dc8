// internal/data/models.go
package data

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrRecordNotFound is returned when a lookup resolves to no document.
// Callers use it to distinguish "no such record" from a transport failure.
var ErrRecordNotFound = errors.New("record not found")

// AuthorStore is the persistence contract for authors.
type AuthorStore interface {
	GetAll(ctx context.Context) ([]*Author, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Author, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, author *Author) error
	Update(ctx context.Context, author *Author) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GenreStore is the persistence contract for genres. GetByName supports the
// create-time deduplication check; it is a plain lookup, uniqueness is not
// enforced by the store itself.
type GenreStore interface {
	GetAll(ctx context.Context) ([]*Genre, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Genre, error)
	GetByName(ctx context.Context, name string) (*Genre, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, genre *Genre) error
	Update(ctx context.Context, genre *Genre) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BookStore is the persistence contract for books. Get and GetAll resolve
// the author reference (and, for Get, the genre references) inline via a
// read-time join; GetByAuthor and GetByGenre return unresolved records.
type BookStore interface {
	GetAll(ctx context.Context) ([]*Book, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Book, error)
	GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*Book, error)
	GetByGenre(ctx context.Context, genreID primitive.ObjectID) ([]*Book, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, book *Book) error
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BookInstanceStore is the persistence contract for physical book copies.
type BookInstanceStore interface {
	GetAll(ctx context.Context) ([]*BookInstance, error)
	Get(ctx context.Context, id primitive.ObjectID) (*BookInstance, error)
	GetByBook(ctx context.Context, bookID primitive.ObjectID) ([]*BookInstance, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status InstanceStatus) (int64, error)
	Insert(ctx context.Context, instance *BookInstance) error
	Update(ctx context.Context, instance *BookInstance) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Models is a top-level container that groups all entity stores together.
// It is passed around the application via applicationDependencies so every
// handler has access to the database without importing mongo directly.
type Models struct {
	Authors       AuthorStore
	Books         BookStore
	Genres        GenreStore
	BookInstances BookInstanceStore
}

// NewModels constructs a Models value wired up to the given database handle.
// Call this once during application startup and store the result in
// applicationDependencies.
func NewModels(db *mongo.Database) Models {
	return Models{
		Authors:       AuthorModel{Collection: db.Collection("authors")},
		Books:         BookModel{Collection: db.Collection("books")},
		Genres:        GenreModel{Collection: db.Collection("genres")},
		BookInstances: BookInstanceModel{Collection: db.Collection("bookinstances")},
	}
}
