// cmd/web/handlers_author.go
// This file contains all HTTP request handlers for the author resource.
package main

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/jonathanbernal/library-tutorial/internal/data"
	"github.com/jonathanbernal/library-tutorial/internal/validator"
)

// authorFields is the declarative validation rule set for the author form.
// Both dates are optional; when present they must be ISO-8601 dates.
var authorFields = []validator.Field{
	{Name: "first_name", Rules: []validator.Rule{validator.Required(), validator.MaxLength(100)}},
	{Name: "family_name", Rules: []validator.Rule{validator.Required(), validator.MaxLength(100)}},
	{Name: "date_of_birth", Optional: true, Rules: []validator.Rule{validator.ISODate()}},
	{Name: "date_of_death", Optional: true, Rules: []validator.Rule{validator.ISODate()}},
}

// authorFormValues maps a stored author onto the form field names, so the
// update form and a redisplayed create form share one template contract.
func authorFormValues(author *data.Author) map[string]string {
	return map[string]string{
		"first_name":    author.FirstName,
		"family_name":   author.FamilyName,
		"date_of_birth": author.DateOfBirthISO(),
		"date_of_death": author.DateOfDeathISO(),
	}
}

// authorListHandler handles GET /catalog/authors.
func (app *applicationDependencies) authorListHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := app.models.Authors.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "author_list.tmpl", envelope{
		"Title":   "Author List",
		"Authors": authors,
	})
}

// authorDetailHandler handles GET /catalog/author/{id}.
// The author and their books are independent reads, so they are fetched
// concurrently. Responds 404 if the author does not exist.
func (app *applicationDependencies) authorDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	author, books, err := app.authorWithBooks(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "author_detail.tmpl", envelope{
		"Title":  "Author Detail",
		"Author": author,
		"Books":  books,
	})
}

// authorCreateFormHandler handles GET /catalog/author/create.
func (app *applicationDependencies) authorCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "author_form.tmpl", envelope{
		"Title":     "Create Author",
		"Author":    map[string]string{},
		"Errors":    map[string]string{},
		"ErrorList": []validator.FieldError{},
	})
}

// authorCreateHandler handles POST /catalog/author/create.
// On validation failure the form is redisplayed with the sanitized input
// and the failure list; on success the new author's page is the redirect
// target.
func (app *applicationDependencies) authorCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	clean, v := validator.Run(r.PostForm, authorFields)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "author_form.tmpl", envelope{
			"Title":     "Create Author",
			"Author":    clean,
			"Errors":    v.Errors,
			"ErrorList": v.FieldErrors,
		})
		return
	}

	author := &data.Author{
		FirstName:   clean["first_name"],
		FamilyName:  clean["family_name"],
		DateOfBirth: parseDate(clean["date_of_birth"]),
		DateOfDeath: parseDate(clean["date_of_death"]),
	}

	if err := app.models.Authors.Insert(r.Context(), author); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, author.URL(), http.StatusSeeOther)
}

// authorDeleteFormHandler handles GET /catalog/author/{id}/delete.
// A missing author redirects to the author list instead of rendering.
// When the author still has books the confirmation page lists them and
// offers no delete button.
func (app *applicationDependencies) authorDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/authors", http.StatusSeeOther)
		return
	}

	author, books, err := app.authorWithBooks(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/authors", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "author_delete.tmpl", envelope{
		"Title":  "Delete Author",
		"Author": author,
		"Books":  books,
	})
}

// authorDeleteHandler handles POST /catalog/author/{id}/delete.
// The identity comes from the submitted form, not the URL. The author's
// books are re-fetched; if any exist the confirmation is redisplayed and
// nothing is deleted.
func (app *applicationDependencies) authorDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	id, err := readFormID(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/authors", http.StatusSeeOther)
		return
	}

	author, books, err := app.authorWithBooks(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/authors", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if len(books) > 0 {
		// Deletion is blocked while dependent books exist.
		app.render(w, r, http.StatusOK, "author_delete.tmpl", envelope{
			"Title":  "Delete Author",
			"Author": author,
			"Books":  books,
		})
		return
	}

	if err := app.models.Authors.Delete(r.Context(), id); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/catalog/authors", http.StatusSeeOther)
}

// authorWithBooks fetches an author and their books concurrently. Both
// delete handlers need the pair, so the fan-out lives here.
func (app *applicationDependencies) authorWithBooks(r *http.Request, id primitive.ObjectID) (*data.Author, []*data.Book, error) {
	var (
		author *data.Author
		books  []*data.Book
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		author, err = app.models.Authors.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = app.models.Books.GetByAuthor(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return author, books, nil
}

// authorUpdateFormHandler handles GET /catalog/author/{id}/update.
// Responds 404 if the author does not exist.
func (app *applicationDependencies) authorUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	author, err := app.models.Authors.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "author_form.tmpl", envelope{
		"Title":     "Update Author",
		"Author":    authorFormValues(author),
		"Errors":    map[string]string{},
		"ErrorList": []validator.FieldError{},
	})
}

// authorUpdateHandler handles POST /catalog/author/{id}/update.
// On success the stored record is replaced in full, keeping its identity,
// and the author's page is the redirect target.
func (app *applicationDependencies) authorUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	clean, v := validator.Run(r.PostForm, authorFields)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "author_form.tmpl", envelope{
			"Title":     "Update Author",
			"Author":    clean,
			"Errors":    v.Errors,
			"ErrorList": v.FieldErrors,
		})
		return
	}

	author := &data.Author{
		ID:          id,
		FirstName:   clean["first_name"],
		FamilyName:  clean["family_name"],
		DateOfBirth: parseDate(clean["date_of_birth"]),
		DateOfDeath: parseDate(clean["date_of_death"]),
	}

	if err := app.models.Authors.Update(r.Context(), author); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, author.URL(), http.StatusSeeOther)
}
