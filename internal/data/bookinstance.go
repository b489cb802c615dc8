package data

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InstanceStatus is the loan status of a physical book copy.
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses lists every valid status, in the order forms offer them.
var InstanceStatuses = []InstanceStatus{
	StatusAvailable,
	StatusMaintenance,
	StatusLoaned,
	StatusReserved,
}

// InstanceStatusValues returns the valid statuses as plain strings, for use
// in validation rule tables.
func InstanceStatusValues() []string {
	values := make([]string, len(InstanceStatuses))
	for i, s := range InstanceStatuses {
		values[i] = string(s)
	}
	return values
}

// BookInstance represents a physical copy of a book, stored in the
// "bookinstances" collection. BookID references the copied work; Book holds
// the referenced document when a read-time join resolved it and is never
// persisted by the write path.
type BookInstance struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	BookID  primitive.ObjectID `bson:"book"`
	Imprint string             `bson:"imprint"`
	Status  InstanceStatus     `bson:"status"`
	DueBack *time.Time         `bson:"due_back,omitempty"`

	Book *Book `bson:"book_doc,omitempty"`
}

// URL returns the canonical path for this copy.
func (b *BookInstance) URL() string {
	return "/catalog/bookinstance/" + b.ID.Hex()
}

// DueBackFormatted returns the due date in human-readable form, or "" when
// the copy has no due date.
func (b *BookInstance) DueBackFormatted() string { return formatDate(b.DueBack) }

// DueBackISO returns the due date as 2006-01-02 for form inputs, or "".
func (b *BookInstance) DueBackISO() string { return formatISO(b.DueBack) }

// BookInstanceModel wraps the "bookinstances" collection and provides
// methods for creating, reading, updating, and deleting book copies.
type BookInstanceModel struct {
	Collection *mongo.Collection
}

// lookupBookStages joins the referenced book into book_doc.
func lookupBookStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "books",
			"localField":   "book",
			"foreignField": "_id",
			"as":           "book_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$book_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// GetAll retrieves every copy sorted by status, with the book reference
// resolved so list views can show titles.
func (m BookInstanceModel) GetAll(ctx context.Context) ([]*BookInstance, error) {
	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, lookupBookStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "status", Value: 1}}}})

	cursor, err := m.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	instances := []*BookInstance{}
	if err := cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// Get retrieves a single copy by identity with its book reference resolved.
// Returns ErrRecordNotFound if no copy matches.
func (m BookInstanceModel) Get(ctx context.Context, id primitive.ObjectID) (*BookInstance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	pipeline = append(pipeline, lookupBookStages()...)

	cursor, err := m.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	instances := []*BookInstance{}
	if err := cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, ErrRecordNotFound
	}
	return instances[0], nil
}

// GetByBook retrieves the copies of the given book, sorted by imprint.
// The book reference is left unresolved; callers already hold the book.
func (m BookInstanceModel) GetByBook(ctx context.Context, bookID primitive.ObjectID) ([]*BookInstance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "imprint", Value: 1}})

	cursor, err := m.Collection.Find(ctx, bson.M{"book": bookID}, opts)
	if err != nil {
		return nil, err
	}

	instances := []*BookInstance{}
	if err := cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// Count returns the number of copy documents.
func (m BookInstanceModel) Count(ctx context.Context) (int64, error) {
	return m.Collection.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of copies currently in the given status.
func (m BookInstanceModel) CountByStatus(ctx context.Context, status InstanceStatus) (int64, error) {
	return m.Collection.CountDocuments(ctx, bson.M{"status": status})
}

// Insert adds a new copy document and writes the assigned identity back.
func (m BookInstanceModel) Insert(ctx context.Context, instance *BookInstance) error {
	result, err := m.Collection.InsertOne(ctx, instance)
	if err != nil {
		return err
	}
	instance.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update replaces the stored document at instance.ID with instance in full.
// Returns ErrRecordNotFound if no document matched.
func (m BookInstanceModel) Update(ctx context.Context, instance *BookInstance) error {
	result, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": instance.ID}, instance)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the copy with the given identity.
// Returns ErrRecordNotFound if no matching document exists.
func (m BookInstanceModel) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
