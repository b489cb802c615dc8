// cmd/web/handlers_genre.go
// This file contains all HTTP request handlers for the genre resource.
package main

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/jonathanbernal/library-tutorial/internal/data"
	"github.com/jonathanbernal/library-tutorial/internal/validator"
)

// Genre name rules differ between create and update: create demands at
// least 3 characters, update accepts any non-empty name. The asymmetry is
// long-standing observed behavior, kept so existing short names stay
// editable.
var genreCreateFields = []validator.Field{
	{Name: "name", Rules: []validator.Rule{validator.Required(), validator.MinLength(3)}},
}

var genreUpdateFields = []validator.Field{
	{Name: "name", Rules: []validator.Rule{validator.Required(), validator.MinLength(1)}},
}

// genreListHandler handles GET /catalog/genres.
func (app *applicationDependencies) genreListHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := app.models.Genres.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "genre_list.tmpl", envelope{
		"Title":  "Genre List",
		"Genres": genres,
	})
}

// genreWithBooks fetches a genre and the books referencing it concurrently.
func (app *applicationDependencies) genreWithBooks(r *http.Request, id primitive.ObjectID) (*data.Genre, []*data.Book, error) {
	var (
		genre *data.Genre
		books []*data.Book
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		genre, err = app.models.Genres.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = app.models.Books.GetByGenre(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return genre, books, nil
}

// genreDetailHandler handles GET /catalog/genre/{id}.
// Responds 404 if the genre does not exist.
func (app *applicationDependencies) genreDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	genre, books, err := app.genreWithBooks(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "genre_detail.tmpl", envelope{
		"Title": "Genre Detail",
		"Genre": genre,
		"Books": books,
	})
}

// genreCreateFormHandler handles GET /catalog/genre/create.
func (app *applicationDependencies) genreCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "genre_form.tmpl", envelope{
		"Title":     "Create Genre",
		"Genre":     map[string]string{},
		"Errors":    map[string]string{},
		"ErrorList": []validator.FieldError{},
	})
}

// genreCreateHandler handles POST /catalog/genre/create.
// Before inserting it checks for an existing genre with the same sanitized
// name; if one exists the response redirects there instead of creating a
// duplicate. The check is a store lookup performed after validation, not a
// validation rule.
func (app *applicationDependencies) genreCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	clean, v := validator.Run(r.PostForm, genreCreateFields)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "genre_form.tmpl", envelope{
			"Title":     "Create Genre",
			"Genre":     clean,
			"Errors":    v.Errors,
			"ErrorList": v.FieldErrors,
		})
		return
	}

	existing, err := app.models.Genres.GetByName(r.Context(), clean["name"])
	switch {
	case err == nil:
		http.Redirect(w, r, existing.URL(), http.StatusSeeOther)
		return
	case errors.Is(err, data.ErrRecordNotFound):
		// No duplicate; fall through to the insert.
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	genre := &data.Genre{Name: clean["name"]}
	if err := app.models.Genres.Insert(r.Context(), genre); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, genre.URL(), http.StatusSeeOther)
}

// genreDeleteFormHandler handles GET /catalog/genre/{id}/delete.
// A missing genre redirects to the genre list instead of rendering.
func (app *applicationDependencies) genreDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/genres", http.StatusSeeOther)
		return
	}

	genre, books, err := app.genreWithBooks(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/genres", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "genre_delete.tmpl", envelope{
		"Title": "Delete Genre",
		"Genre": genre,
		"Books": books,
	})
}

// genreDeleteHandler handles POST /catalog/genre/{id}/delete.
// The identity comes from the submitted form. Deletion is blocked while
// books still reference the genre.
func (app *applicationDependencies) genreDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	id, err := readFormID(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/genres", http.StatusSeeOther)
		return
	}

	genre, books, err := app.genreWithBooks(r, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/genres", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if len(books) > 0 {
		app.render(w, r, http.StatusOK, "genre_delete.tmpl", envelope{
			"Title": "Delete Genre",
			"Genre": genre,
			"Books": books,
		})
		return
	}

	if err := app.models.Genres.Delete(r.Context(), id); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/catalog/genres", http.StatusSeeOther)
}

// genreUpdateFormHandler handles GET /catalog/genre/{id}/update.
// Responds 404 if the genre does not exist.
func (app *applicationDependencies) genreUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	genre, err := app.models.Genres.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "genre_form.tmpl", envelope{
		"Title":     "Update Genre",
		"Genre":     map[string]string{"name": genre.Name},
		"Errors":    map[string]string{},
		"ErrorList": []validator.FieldError{},
	})
}

// genreUpdateHandler handles POST /catalog/genre/{id}/update.
func (app *applicationDependencies) genreUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	clean, v := validator.Run(r.PostForm, genreUpdateFields)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "genre_form.tmpl", envelope{
			"Title":     "Update Genre",
			"Genre":     clean,
			"Errors":    v.Errors,
			"ErrorList": v.FieldErrors,
		})
		return
	}

	genre := &data.Genre{ID: id, Name: clean["name"]}
	if err := app.models.Genres.Update(r.Context(), genre); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, genre.URL(), http.StatusSeeOther)
}
