// cmd/web/handlers.go
// This file contains the catalog home page handler. The per-entity CRUD
// handlers live in handlers_author.go, handlers_book.go, handlers_genre.go,
// and handlers_bookinstance.go; each is a method on *applicationDependencies
// so it has access to the logger, models, and template cache.
package main

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/jonathanbernal/library-tutorial/internal/data"
)

// catalogIndexHandler handles GET /catalog.
// It fetches the record counts of every collection concurrently (the five
// reads are independent) and renders the home page.
func (app *applicationDependencies) catalogIndexHandler(w http.ResponseWriter, r *http.Request) {
	var (
		bookCount      int64
		instanceCount  int64
		availableCount int64
		authorCount    int64
		genreCount     int64
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		bookCount, err = app.models.Books.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		instanceCount, err = app.models.BookInstances.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		availableCount, err = app.models.BookInstances.CountByStatus(ctx, data.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		authorCount, err = app.models.Authors.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		genreCount, err = app.models.Genres.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "home.tmpl", envelope{
		"Title":          "Local Library Home",
		"BookCount":      bookCount,
		"InstanceCount":  instanceCount,
		"AvailableCount": availableCount,
		"AuthorCount":    authorCount,
		"GenreCount":     genreCount,
	})
}
