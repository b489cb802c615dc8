package data

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Book represents a single book document stored in the "books" collection.
// AuthorID and GenreIDs are references by identity; Author and Genres hold
// the referenced documents when a read-time join resolved them. The write
// path always builds fresh Book values with the resolved fields unset, so
// they are never persisted.
type Book struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Title    string               `bson:"title"`
	AuthorID primitive.ObjectID   `bson:"author"`
	Summary  string               `bson:"summary"`
	ISBN     string               `bson:"isbn"`
	GenreIDs []primitive.ObjectID `bson:"genre"`

	Author *Author `bson:"author_doc,omitempty"`
	Genres []Genre `bson:"genre_docs,omitempty"`
}

// URL returns the canonical path for this book.
func (b *Book) URL() string {
	return "/catalog/book/" + b.ID.Hex()
}

// BookModel wraps the "books" collection and provides methods for creating,
// reading, updating, and deleting book documents. Reads that need the
// referenced author or genres resolve them with $lookup aggregation stages,
// never by storing denormalized copies.
type BookModel struct {
	Collection *mongo.Collection
}

// lookupAuthorStages joins the referenced author into author_doc.
// $lookup yields an array, so the single author is unwound; the preserve
// flag keeps books whose author reference dangles visible rather than
// silently dropping them from results.
func lookupAuthorStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "authors",
			"localField":   "author",
			"foreignField": "_id",
			"as":           "author_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$author_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// lookupGenreStages joins the referenced genres into genre_docs.
func lookupGenreStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "genres",
			"localField":   "genre",
			"foreignField": "_id",
			"as":           "genre_docs",
		}}},
	}
}

// GetAll retrieves every book sorted by title, with the author reference
// resolved so list views can show author names.
func (m BookModel) GetAll(ctx context.Context) ([]*Book, error) {
	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, lookupAuthorStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "title", Value: 1}}}})

	cursor, err := m.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	books := []*Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Get retrieves a single book by identity with its author and genre
// references resolved. Returns ErrRecordNotFound if no book matches.
func (m BookModel) Get(ctx context.Context, id primitive.ObjectID) (*Book, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	pipeline = append(pipeline, lookupAuthorStages()...)
	pipeline = append(pipeline, lookupGenreStages()...)

	cursor, err := m.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	books := []*Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrRecordNotFound
	}
	return books[0], nil
}

// GetByAuthor retrieves the books referencing the given author, sorted by
// title. References are left unresolved; callers only need titles here.
func (m BookModel) GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*Book, error) {
	return m.find(ctx, bson.M{"author": authorID})
}

// GetByGenre retrieves the books referencing the given genre, sorted by title.
func (m BookModel) GetByGenre(ctx context.Context, genreID primitive.ObjectID) ([]*Book, error) {
	return m.find(ctx, bson.M{"genre": genreID})
}

func (m BookModel) find(ctx context.Context, filter bson.M) ([]*Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	books := []*Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Count returns the number of book documents.
func (m BookModel) Count(ctx context.Context) (int64, error) {
	return m.Collection.CountDocuments(ctx, bson.M{})
}

// Insert adds a new book document and writes the assigned identity back.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	result, err := m.Collection.InsertOne(ctx, book)
	if err != nil {
		return err
	}
	book.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the stored document at book.ID with book in full.
// Returns ErrRecordNotFound if no document matched.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	result, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the book with the given identity.
// Returns ErrRecordNotFound if no matching document exists.
func (m BookModel) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
