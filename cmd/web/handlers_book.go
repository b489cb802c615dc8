// cmd/web/handlers_book.go
// This file contains all HTTP request handlers for the book resource.
package main

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/jonathanbernal/library-tutorial/internal/data"
	"github.com/jonathanbernal/library-tutorial/internal/validator"
)

// bookFields is the declarative validation rule set for the book form.
// The author field carries the selected author's identity; whether that
// identity is well-formed is checked separately after the rules run.
var bookFields = []validator.Field{
	{Name: "title", Rules: []validator.Rule{validator.Required()}},
	{Name: "author", Rules: []validator.Rule{validator.Required()}},
	{Name: "summary", Rules: []validator.Rule{validator.Required()}},
	{Name: "isbn", Rules: []validator.Rule{validator.Required()}},
}

// bookFormValues maps a stored book onto the form field names.
func bookFormValues(book *data.Book) map[string]string {
	return map[string]string{
		"title":   book.Title,
		"author":  book.AuthorID.Hex(),
		"summary": book.Summary,
		"isbn":    book.ISBN,
	}
}

// selectedGenreSet turns a list of submitted genre identities into the
// lookup set the form template uses to re-check boxes.
func selectedGenreSet(hexIDs []string) map[string]bool {
	set := make(map[string]bool, len(hexIDs))
	for _, id := range hexIDs {
		set[id] = true
	}
	return set
}

// renderBookForm fetches the author and genre reference lists concurrently
// and renders the book form. Every book form render (blank create, failed
// create, update, failed update) funnels through here so the selection
// lists are always present.
func (app *applicationDependencies) renderBookForm(w http.ResponseWriter, r *http.Request, status int, title string, values map[string]string, selectedGenres map[string]bool, v *validator.Validator) {
	var (
		authors []*data.Author
		genres  []*data.Genre
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		authors, err = app.models.Authors.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = app.models.Genres.GetAll(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, status, "book_form.tmpl", envelope{
		"Title":          title,
		"Book":           values,
		"Authors":        authors,
		"Genres":         genres,
		"SelectedAuthor": values["author"],
		"SelectedGenres": selectedGenres,
		"Errors":         v.Errors,
		"ErrorList":      v.FieldErrors,
	})
}

// bookListHandler handles GET /catalog/books.
// The store resolves each book's author reference so the list can show
// author names without a second query.
func (app *applicationDependencies) bookListHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "book_list.tmpl", envelope{
		"Title": "Book List",
		"Books": books,
	})
}

// bookWithInstances fetches a book (references resolved) and its copies
// concurrently.
func (app *applicationDependencies) bookWithInstances(r *http.Request, id primitive.ObjectID) (*data.Book, []*data.BookInstance, error) {
	var (
		book      *data.Book
		instances []*data.BookInstance
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		book, err = app.models.Books.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		instances, err = app.models.BookInstances.GetByBook(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return book, instances, nil
}

// bookDetailHandler handles GET /catalog/book/{id}.
// Responds 404 if the book does not exist.
func (app *applicationDependencies) bookDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, instances, err := app.bookWithInstances(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "book_detail.tmpl", envelope{
		"Title":     "Book Detail",
		"Book":      book,
		"Instances": instances,
	})
}

// bookCreateFormHandler handles GET /catalog/book/create.
func (app *applicationDependencies) bookCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderBookForm(w, r, http.StatusOK, "Create Book", map[string]string{}, map[string]bool{}, validator.New())
}

// bookCreateHandler handles POST /catalog/book/create.
func (app *applicationDependencies) bookCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Normalize the multi-valued genre field before any rule runs: absent
	// becomes an empty list, a single value a one-element list.
	genres := readGenreList(r)
	for i, g := range genres {
		genres[i] = validator.Sanitize(g)
	}

	clean, v := validator.Run(r.PostForm, bookFields)
	authorID, genreIDs := app.parseBookRefs(clean["author"], genres, v)

	if !v.Valid() {
		app.renderBookForm(w, r, http.StatusUnprocessableEntity, "Create Book", clean, selectedGenreSet(genres), v)
		return
	}

	book := &data.Book{
		Title:    clean["title"],
		AuthorID: authorID,
		Summary:  clean["summary"],
		ISBN:     clean["isbn"],
		GenreIDs: genreIDs,
	}

	if err := app.models.Books.Insert(r.Context(), book); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, book.URL(), http.StatusSeeOther)
}

// parseBookRefs converts the submitted author and genre identities into
// ObjectIDs, recording a validation failure for anything malformed. The
// author value may be empty here; the Required rule has already reported
// that case.
func (app *applicationDependencies) parseBookRefs(author string, genres []string, v *validator.Validator) (primitive.ObjectID, []primitive.ObjectID) {
	var authorID primitive.ObjectID
	if author != "" {
		id, err := primitive.ObjectIDFromHex(author)
		if err != nil {
			v.AddError("author", "must be a valid selection")
		} else {
			authorID = id
		}
	}

	genreIDs := make([]primitive.ObjectID, 0, len(genres))
	for _, g := range genres {
		id, err := primitive.ObjectIDFromHex(g)
		if err != nil {
			v.AddError("genre", "must contain valid selections")
			break
		}
		genreIDs = append(genreIDs, id)
	}

	return authorID, genreIDs
}

// bookDeleteFormHandler handles GET /catalog/book/{id}/delete.
// A missing book redirects to the book list instead of rendering. When
// copies of the book exist the confirmation page lists them and offers no
// delete button.
func (app *applicationDependencies) bookDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/books", http.StatusSeeOther)
		return
	}

	book, instances, err := app.bookWithInstances(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/books", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "book_delete.tmpl", envelope{
		"Title":     "Delete Book",
		"Book":      book,
		"Instances": instances,
	})
}

// bookDeleteHandler handles POST /catalog/book/{id}/delete.
// The identity comes from the submitted form. Deletion is blocked while
// copies of the book exist.
func (app *applicationDependencies) bookDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	id, err := readFormID(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/books", http.StatusSeeOther)
		return
	}

	book, instances, err := app.bookWithInstances(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/books", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if len(instances) > 0 {
		app.render(w, r, http.StatusOK, "book_delete.tmpl", envelope{
			"Title":     "Delete Book",
			"Book":      book,
			"Instances": instances,
		})
		return
	}

	if err := app.models.Books.Delete(r.Context(), id); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/catalog/books", http.StatusSeeOther)
}

// bookUpdateFormHandler handles GET /catalog/book/{id}/update.
// Responds 404 if the book does not exist. Currently referenced genres
// arrive pre-checked.
func (app *applicationDependencies) bookUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	selected := make(map[string]bool, len(book.GenreIDs))
	for _, genreID := range book.GenreIDs {
		selected[genreID.Hex()] = true
	}

	app.renderBookForm(w, r, http.StatusOK, "Update Book", bookFormValues(book), selected, validator.New())
}

// bookUpdateHandler handles POST /catalog/book/{id}/update.
// On success the stored record is replaced in full, keeping its identity.
func (app *applicationDependencies) bookUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	genres := readGenreList(r)
	for i, g := range genres {
		genres[i] = validator.Sanitize(g)
	}

	clean, v := validator.Run(r.PostForm, bookFields)
	authorID, genreIDs := app.parseBookRefs(clean["author"], genres, v)

	if !v.Valid() {
		app.renderBookForm(w, r, http.StatusUnprocessableEntity, "Update Book", clean, selectedGenreSet(genres), v)
		return
	}

	book := &data.Book{
		ID:       id,
		Title:    clean["title"],
		AuthorID: authorID,
		Summary:  clean["summary"],
		ISBN:     clean["isbn"],
		GenreIDs: genreIDs,
	}

	if err := app.models.Books.Update(r.Context(), book); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, book.URL(), http.StatusSeeOther)
}
