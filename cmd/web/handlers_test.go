package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jonathanbernal/library-tutorial/internal/data"
	"github.com/jonathanbernal/library-tutorial/internal/data/mocks"
)

// newTestApplication builds an applicationDependencies backed by the
// in-memory store, with the real template cache and a discarded logger.
// The rate limiter is left disabled so tests can issue bursts of requests.
func newTestApplication(t *testing.T) (*applicationDependencies, data.Models) {
	t.Helper()

	templateCache, err := newTemplateCache()
	require.NoError(t, err)

	models := mocks.NewStore().Models()

	app := &applicationDependencies{
		config:        serverConfig{environment: "testing"},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		models:        models,
		templateCache: templateCache,
	}
	return app, models
}

// newTestServer starts an httptest server around the full route tree.
// The returned client does not follow redirects, so tests can assert on
// 303 responses and their Location headers directly.
func newTestServer(t *testing.T, app *applicationDependencies) (*httptest.Server, *http.Client) {
	t.Helper()

	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	client := ts.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return ts, client
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCatalogIndex(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	require.NoError(t, models.Genres.Insert(ctx, &data.Genre{Name: "Fantasy"}))
	require.NoError(t, models.Authors.Insert(ctx, &data.Author{FirstName: "Jane", FamilyName: "Austen"}))

	resp, err := client.Get(ts.URL + "/catalog")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Local Library Home")
	assert.Contains(t, body, "Authors:</strong> 1")
	assert.Contains(t, body, "Genres:</strong> 1")
	assert.Contains(t, body, "Books:</strong> 0")
}

func TestAuthorDetailNotFound(t *testing.T) {
	app, _ := newTestApplication(t)
	ts, client := newTestServer(t, app)

	t.Run("unknown id", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/catalog/author/" + primitive.NewObjectID().Hex())
		require.NoError(t, err)
		body := readBody(t, resp)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "could not be found")
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/catalog/author/not-an-id")
		require.NoError(t, err)
		readBody(t, resp)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAuthorCreate(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	t.Run("valid form creates and redirects", func(t *testing.T) {
		form := url.Values{
			"first_name":    {"  Jane "},
			"family_name":   {"Austen"},
			"date_of_birth": {"1775-12-16"},
		}
		resp, err := client.PostForm(ts.URL+"/catalog/author/create", form)
		require.NoError(t, err)
		readBody(t, resp)

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		authors, err := models.Authors.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "Jane", authors[0].FirstName)
		assert.Equal(t, "Austen, Jane", authors[0].FullName())
		require.NotNil(t, authors[0].DateOfBirth)
		assert.Equal(t, "1775-12-16", authors[0].DateOfBirthISO())
		assert.Equal(t, authors[0].URL(), resp.Header.Get("Location"))
	})

	t.Run("missing names re-render the form without a write", func(t *testing.T) {
		before, err := models.Authors.Count(context.Background())
		require.NoError(t, err)

		resp, err := client.PostForm(ts.URL+"/catalog/author/create", url.Values{
			"date_of_birth": {"1775-12-16"},
		})
		require.NoError(t, err)
		body := readBody(t, resp)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "must not be empty")
		assert.Contains(t, body, "1775-12-16") // sanitized input is kept

		after, err := models.Authors.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestAuthorUpdate(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "Jane", FamilyName: "Austin"}
	require.NoError(t, models.Authors.Insert(ctx, author))

	form := url.Values{
		"first_name":  {"Jane"},
		"family_name": {"Austen"},
	}
	resp, err := client.PostForm(ts.URL+"/catalog/author/"+author.ID.Hex()+"/update", form)
	require.NoError(t, err)
	readBody(t, resp)

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, author.URL(), resp.Header.Get("Location"))

	got, err := models.Authors.Get(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)
	assert.Equal(t, "Austen", got.FamilyName)
	assert.Nil(t, got.DateOfBirth) // full replacement, not a patch
}

func TestAuthorDeleteBlockedByBooks(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))
	book := &data.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1"}
	require.NoError(t, models.Books.Insert(ctx, book))

	resp, err := client.PostForm(ts.URL+"/catalog/author/"+author.ID.Hex()+"/delete", url.Values{
		"id": {author.ID.Hex()},
	})
	require.NoError(t, err)
	body := readBody(t, resp)

	// The confirmation is redisplayed with the dependents; nothing is deleted.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Delete the following books")
	assert.Contains(t, body, "Emma")

	count, err := models.Authors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAuthorDeleteWithoutBooks(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))

	resp, err := client.PostForm(ts.URL+"/catalog/author/"+author.ID.Hex()+"/delete", url.Values{
		"id": {author.ID.Hex()},
	})
	require.NoError(t, err)
	readBody(t, resp)

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/catalog/authors", resp.Header.Get("Location"))

	count, err := models.Authors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAuthorDeleteFormMissingRedirects(t *testing.T) {
	app, _ := newTestApplication(t)
	ts, client := newTestServer(t, app)

	resp, err := client.Get(ts.URL + "/catalog/author/" + primitive.NewObjectID().Hex() + "/delete")
	require.NoError(t, err)
	readBody(t, resp)

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/catalog/authors", resp.Header.Get("Location"))
}

func TestGenreCreate(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)
	ctx := context.Background()

	t.Run("duplicate name redirects to the existing genre", func(t *testing.T) {
		existing := &data.Genre{Name: "Fantasy"}
		require.NoError(t, models.Genres.Insert(ctx, existing))

		resp, err := client.PostForm(ts.URL+"/catalog/genre/create", url.Values{
			"name": {"  Fantasy  "}, // same name after sanitization
		})
		require.NoError(t, err)
		readBody(t, resp)

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, existing.URL(), resp.Header.Get("Location"))

		count, err := models.Genres.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("short name fails the create minimum", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/genre/create", url.Values{
			"name": {"ab"},
		})
		require.NoError(t, err)
		body := readBody(t, resp)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "must be at least 3 characters long")
	})

	t.Run("new name inserts and redirects", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/genre/create", url.Values{
			"name": {"Science Fiction"},
		})
		require.NoError(t, err)
		readBody(t, resp)

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		created, err := models.Genres.GetByName(ctx, "Science Fiction")
		require.NoError(t, err)
		assert.Equal(t, created.URL(), resp.Header.Get("Location"))
	})
}

func TestGenreUpdateAcceptsShortName(t *testing.T) {
	// The update minimum is 1 character, unlike create's 3.
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	genre := &data.Genre{Name: "Fantasy"}
	require.NoError(t, models.Genres.Insert(ctx, genre))

	resp, err := client.PostForm(ts.URL+"/catalog/genre/"+genre.ID.Hex()+"/update", url.Values{
		"name": {"F"},
	})
	require.NoError(t, err)
	readBody(t, resp)

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	got, err := models.Genres.Get(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "F", got.Name)
}

func TestBookCreate(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "J.R.R.", FamilyName: "Tolkien"}
	require.NoError(t, models.Authors.Insert(ctx, author))
	genre := &data.Genre{Name: "Fantasy"}
	require.NoError(t, models.Genres.Insert(ctx, genre))

	t.Run("empty title re-renders the form without a write", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/book/create", url.Values{
			"title":   {""},
			"author":  {author.ID.Hex()},
			"summary": {"A hobbit goes on an adventure."},
			"isbn":    {"9780261102217"},
			"genre":   {genre.ID.Hex()},
		})
		require.NoError(t, err)
		body := readBody(t, resp)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "must not be empty")
		// Sanitized input and selections are kept on the redisplayed form.
		assert.Contains(t, body, "A hobbit goes on an adventure.")
		assert.Contains(t, body, "checked")

		count, err := models.Books.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("single genre value becomes a one-element list", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/book/create", url.Values{
			"title":   {"The Hobbit"},
			"author":  {author.ID.Hex()},
			"summary": {"A hobbit goes on an adventure."},
			"isbn":    {"9780261102217"},
			"genre":   {genre.ID.Hex()},
		})
		require.NoError(t, err)
		readBody(t, resp)

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		books, err := models.Books.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, 1)
		require.Len(t, books[0].GenreIDs, 1)
		assert.Equal(t, genre.ID, books[0].GenreIDs[0])
		assert.Equal(t, author.ID, books[0].AuthorID)
	})

	t.Run("absent genre field becomes an empty list", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/book/create", url.Values{
			"title":   {"Unsorted Tales"},
			"author":  {author.ID.Hex()},
			"summary": {"s"},
			"isbn":    {"2"},
		})
		require.NoError(t, err)
		readBody(t, resp)

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		books, err := models.Books.GetByAuthor(ctx, author.ID)
		require.NoError(t, err)
		for _, b := range books {
			if b.Title == "Unsorted Tales" {
				assert.Empty(t, b.GenreIDs)
			}
		}
	})
}

func TestBookDetail(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))
	book := &data.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1"}
	require.NoError(t, models.Books.Insert(ctx, book))
	instance := &data.BookInstance{BookID: book.ID, Imprint: "First edition", Status: data.StatusAvailable}
	require.NoError(t, models.BookInstances.Insert(ctx, instance))

	resp, err := client.Get(ts.URL + book.URL())
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Emma")
	assert.Contains(t, body, "Austen, Jane")
	assert.Contains(t, body, "First edition")
}

func TestBookDeleteBlockedByInstances(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))
	book := &data.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1"}
	require.NoError(t, models.Books.Insert(ctx, book))
	instance := &data.BookInstance{BookID: book.ID, Imprint: "First edition", Status: data.StatusLoaned}
	require.NoError(t, models.BookInstances.Insert(ctx, instance))

	resp, err := client.PostForm(ts.URL+book.URL()+"/delete", url.Values{
		"id": {book.ID.Hex()},
	})
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Delete the following copies")

	count, err := models.Books.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBookInstanceCreate(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	author := &data.Author{FirstName: "Jane", FamilyName: "Austen"}
	require.NoError(t, models.Authors.Insert(ctx, author))
	book := &data.Book{Title: "Emma", AuthorID: author.ID, Summary: "s", ISBN: "1"}
	require.NoError(t, models.Books.Insert(ctx, book))

	t.Run("invalid status fails", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/bookinstance/create", url.Values{
			"book":    {book.ID.Hex()},
			"imprint": {"First edition"},
			"status":  {"Lost"},
		})
		require.NoError(t, err)
		body := readBody(t, resp)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "must be one of")
	})

	t.Run("valid form creates and redirects", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/catalog/bookinstance/create", url.Values{
			"book":     {book.ID.Hex()},
			"imprint":  {"First edition"},
			"status":   {"Loaned"},
			"due_back": {"2026-09-14"},
		})
		require.NoError(t, err)
		readBody(t, resp)

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		copies, err := models.BookInstances.GetByBook(ctx, book.ID)
		require.NoError(t, err)
		require.Len(t, copies, 1)
		assert.Equal(t, data.StatusLoaned, copies[0].Status)
		assert.Equal(t, "2026-09-14", copies[0].DueBackISO())
	})
}

func TestListPages(t *testing.T) {
	app, models := newTestApplication(t)
	ts, client := newTestServer(t, app)

	ctx := context.Background()
	require.NoError(t, models.Authors.Insert(ctx, &data.Author{FirstName: "Jane", FamilyName: "Austen"}))
	require.NoError(t, models.Genres.Insert(ctx, &data.Genre{Name: "Fantasy"}))

	for _, path := range []string{"/catalog/authors", "/catalog/genres", "/catalog/books", "/catalog/bookinstances"} {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		readBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
