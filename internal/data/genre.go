package data

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Genre represents a single genre document stored in the "genres"
// collection. Names are treated as unique by convention: the create handler
// checks for an existing genre with the same name and redirects to it, but
// nothing at this level enforces uniqueness.
type Genre struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// URL returns the canonical path for this genre.
func (g *Genre) URL() string {
	return "/catalog/genre/" + g.ID.Hex()
}

// GenreModel wraps the "genres" collection and provides methods for
// creating, reading, updating, and deleting genre documents.
type GenreModel struct {
	Collection *mongo.Collection
}

// GetAll retrieves every genre, sorted by name.
func (m GenreModel) GetAll(ctx context.Context) ([]*Genre, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := m.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	genres := []*Genre{}
	if err := cursor.All(ctx, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Get retrieves a single genre by identity.
// Returns ErrRecordNotFound if no genre with the given id exists.
func (m GenreModel) Get(ctx context.Context, id primitive.ObjectID) (*Genre, error) {
	var genre Genre
	err := m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&genre)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetByName retrieves the first genre whose name matches exactly.
// Returns ErrRecordNotFound when no genre has that name.
func (m GenreModel) GetByName(ctx context.Context, name string) (*Genre, error) {
	var genre Genre
	err := m.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&genre)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// Count returns the number of genre documents.
func (m GenreModel) Count(ctx context.Context) (int64, error) {
	return m.Collection.CountDocuments(ctx, bson.M{})
}

// Insert adds a new genre document and writes the assigned identity back.
func (m GenreModel) Insert(ctx context.Context, genre *Genre) error {
	result, err := m.Collection.InsertOne(ctx, genre)
	if err != nil {
		return err
	}
	genre.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the stored document at genre.ID with genre in full.
// Returns ErrRecordNotFound if no document matched.
func (m GenreModel) Update(ctx context.Context, genre *Genre) error {
	result, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": genre.ID}, genre)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the genre with the given identity.
// Returns ErrRecordNotFound if no matching document exists.
func (m GenreModel) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
