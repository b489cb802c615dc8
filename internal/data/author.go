// Package data provides the entity types, their derived attributes, and the
// MongoDB-backed store implementations for the library catalog.
package data

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Author represents a single author document stored in the "authors"
// collection. Only the tagged fields are persisted; everything a view needs
// beyond them (full name, URL, formatted dates) is recomputed on every read
// by the methods below.
type Author struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FirstName   string             `bson:"first_name"`
	FamilyName  string             `bson:"family_name"`
	DateOfBirth *time.Time         `bson:"date_of_birth,omitempty"`
	DateOfDeath *time.Time         `bson:"date_of_death,omitempty"`
}

// FullName returns "family, first", or the empty string unless both name
// parts are present.
func (a *Author) FullName() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// URL returns the canonical path for this author.
func (a *Author) URL() string {
	return "/catalog/author/" + a.ID.Hex()
}

// Lifespan joins the formatted birth and death dates. Either side is blank
// when the corresponding date is unknown, e.g. "Dec 16, 1775 - ".
func (a *Author) Lifespan() string {
	return formatDate(a.DateOfBirth) + " - " + formatDate(a.DateOfDeath)
}

// DateOfBirthFormatted returns the birth date in human-readable form,
// or "" when unknown.
func (a *Author) DateOfBirthFormatted() string { return formatDate(a.DateOfBirth) }

// DateOfDeathFormatted returns the death date in human-readable form,
// or "" when unknown.
func (a *Author) DateOfDeathFormatted() string { return formatDate(a.DateOfDeath) }

// DateOfBirthISO returns the birth date as 2006-01-02 for form inputs,
// or "" when unknown.
func (a *Author) DateOfBirthISO() string { return formatISO(a.DateOfBirth) }

// DateOfDeathISO returns the death date as 2006-01-02 for form inputs,
// or "" when unknown.
func (a *Author) DateOfDeathISO() string { return formatISO(a.DateOfDeath) }

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatISO(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// AuthorModel wraps the "authors" collection and provides methods for
// creating, reading, updating, and deleting author documents.
type AuthorModel struct {
	Collection *mongo.Collection
}

// GetAll retrieves every author, sorted by family name at the store
// boundary so every caller sees the same ordering.
func (m AuthorModel) GetAll(ctx context.Context) ([]*Author, error) {
	opts := options.Find().SetSort(bson.D{{Key: "family_name", Value: 1}})

	cursor, err := m.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	authors := []*Author{}
	if err := cursor.All(ctx, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// Get retrieves a single author by identity.
// Returns ErrRecordNotFound if no author with the given id exists.
func (m AuthorModel) Get(ctx context.Context, id primitive.ObjectID) (*Author, error) {
	var author Author
	err := m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&author)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &author, nil
}

// Count returns the number of author documents.
func (m AuthorModel) Count(ctx context.Context) (int64, error) {
	return m.Collection.CountDocuments(ctx, bson.M{})
}

// Insert adds a new author document. After a successful insert the
// store-assigned identity is written back into the struct.
func (m AuthorModel) Insert(ctx context.Context, author *Author) error {
	result, err := m.Collection.InsertOne(ctx, author)
	if err != nil {
		return err
	}
	author.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the stored document at author.ID with author in full.
// Returns ErrRecordNotFound if no document matched.
func (m AuthorModel) Update(ctx context.Context, author *Author) error {
	result, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": author.ID}, author)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the author with the given identity.
// Returns ErrRecordNotFound if no matching document exists.
func (m AuthorModel) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
