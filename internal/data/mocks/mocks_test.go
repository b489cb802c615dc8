package mocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jonathanbernal/library-tutorial/internal/data"
	"github.com/jonathanbernal/library-tutorial/internal/data/mocks"
)

func TestAuthorRoundtrip(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	born := time.Date(1775, time.December, 16, 0, 0, 0, 0, time.UTC)
	author := &data.Author{FirstName: "Jane", FamilyName: "Austen", DateOfBirth: &born}

	require.NoError(t, models.Authors.Insert(ctx, author))
	require.False(t, author.ID.IsZero())

	got, err := models.Authors.Get(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author, got)
}

func TestAuthorUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))

	replacement := &data.Author{ID: author.ID, FirstName: "Charlotte", FamilyName: "Bronte"}
	require.NoError(t, models.Authors.Update(ctx, replacement))

	got, err := models.Authors.Get(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)
	assert.Equal(t, "Charlotte", got.FirstName)
	assert.Equal(t, "Bronte", got.FamilyName)
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	_, err := models.Authors.Get(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	_, err = models.Genres.GetByName(ctx, "Fantasy")
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	err = models.Books.Delete(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	err = models.BookInstances.Update(ctx, &data.BookInstance{ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestBookRoundtripResolvesReferences(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	author := &data.Author{FirstName: "J.R.R.", FamilyName: "Tolkien"}
	require.NoError(t, models.Authors.Insert(ctx, author))

	genre := &data.Genre{Name: "Fantasy"}
	require.NoError(t, models.Genres.Insert(ctx, genre))

	book := &data.Book{
		Title:    "The Hobbit",
		AuthorID: author.ID,
		Summary:  "A hobbit goes on an adventure.",
		ISBN:     "9780261102217",
		GenreIDs: []primitive.ObjectID{genre.ID},
	}
	require.NoError(t, models.Books.Insert(ctx, book))

	got, err := models.Books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
	assert.Equal(t, book.AuthorID, got.AuthorID)
	assert.Equal(t, book.Summary, got.Summary)
	assert.Equal(t, book.ISBN, got.ISBN)
	assert.Equal(t, book.GenreIDs, got.GenreIDs)

	// Read-time joins fill the resolved fields without persisting them.
	require.NotNil(t, got.Author)
	assert.Equal(t, "Tolkien, J.R.R.", got.Author.FullName())
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Fantasy", got.Genres[0].Name)
}

func TestBoundarySorting(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	for _, family := range []string{"Zola", "Austen", "Melville"} {
		require.NoError(t, models.Authors.Insert(ctx, &data.Author{FirstName: "X", FamilyName: family}))
	}

	authors, err := models.Authors.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "Austen", authors[0].FamilyName)
	assert.Equal(t, "Melville", authors[1].FamilyName)
	assert.Equal(t, "Zola", authors[2].FamilyName)
}

func TestGetByReference(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))
	other := &data.Author{FirstName: "Emily", FamilyName: "Bronte"}
	require.NoError(t, models.Authors.Insert(ctx, other))

	book := &data.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1"}
	require.NoError(t, models.Books.Insert(ctx, book))

	byAuthor, err := models.Books.GetByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Emma", byAuthor[0].Title)

	byOther, err := models.Books.GetByAuthor(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, byOther)

	instance := &data.BookInstance{BookID: book.ID, Imprint: "First edition", Status: data.StatusAvailable}
	require.NoError(t, models.BookInstances.Insert(ctx, instance))

	copies, err := models.BookInstances.GetByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, copies, 1)

	available, err := models.BookInstances.CountByStatus(ctx, data.StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)

	loaned, err := models.BookInstances.CountByStatus(ctx, data.StatusLoaned)
	require.NoError(t, err)
	assert.Equal(t, int64(0), loaned)
}

func TestDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	models := mocks.NewStore().Models()

	genre := &data.Genre{Name: "Poetry"}
	require.NoError(t, models.Genres.Insert(ctx, genre))

	require.NoError(t, models.Genres.Delete(ctx, genre.ID))

	_, err := models.Genres.Get(ctx, genre.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	count, err := models.Genres.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
