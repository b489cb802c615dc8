// cmd/web/routes.go
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the recoverPanic and rateLimit middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → router
//
// Every entity exposes the same route shape under /catalog:
//
//	GET  /<plural>                 – list
//	GET  /<singular>/create        – create form
//	POST /<singular>/create        – create submit
//	GET  /<singular>/{id}          – detail
//	GET  /<singular>/{id}/delete   – delete confirmation
//	POST /<singular>/{id}/delete   – delete submit (id re-read from the form)
//	GET  /<singular>/{id}/update   – update form
//	POST /<singular>/{id}/update   – update submit
func (app *applicationDependencies) routes() http.Handler {
	router := chi.NewRouter()

	// Override the default chi error handlers to render the error page.
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)

	// The site lives under /catalog; the bare root just points there.
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
	})

	router.Route("/catalog", func(r chi.Router) {
		r.Get("/", app.catalogIndexHandler)

		r.Get("/authors", app.authorListHandler)
		r.Get("/author/create", app.authorCreateFormHandler)
		r.Post("/author/create", app.authorCreateHandler)
		r.Get("/author/{id}", app.authorDetailHandler)
		r.Get("/author/{id}/delete", app.authorDeleteFormHandler)
		r.Post("/author/{id}/delete", app.authorDeleteHandler)
		r.Get("/author/{id}/update", app.authorUpdateFormHandler)
		r.Post("/author/{id}/update", app.authorUpdateHandler)

		r.Get("/genres", app.genreListHandler)
		r.Get("/genre/create", app.genreCreateFormHandler)
		r.Post("/genre/create", app.genreCreateHandler)
		r.Get("/genre/{id}", app.genreDetailHandler)
		r.Get("/genre/{id}/delete", app.genreDeleteFormHandler)
		r.Post("/genre/{id}/delete", app.genreDeleteHandler)
		r.Get("/genre/{id}/update", app.genreUpdateFormHandler)
		r.Post("/genre/{id}/update", app.genreUpdateHandler)

		r.Get("/books", app.bookListHandler)
		r.Get("/book/create", app.bookCreateFormHandler)
		r.Post("/book/create", app.bookCreateHandler)
		r.Get("/book/{id}", app.bookDetailHandler)
		r.Get("/book/{id}/delete", app.bookDeleteFormHandler)
		r.Post("/book/{id}/delete", app.bookDeleteHandler)
		r.Get("/book/{id}/update", app.bookUpdateFormHandler)
		r.Post("/book/{id}/update", app.bookUpdateHandler)

		r.Get("/bookinstances", app.bookInstanceListHandler)
		r.Get("/bookinstance/create", app.bookInstanceCreateFormHandler)
		r.Post("/bookinstance/create", app.bookInstanceCreateHandler)
		r.Get("/bookinstance/{id}", app.bookInstanceDetailHandler)
		r.Get("/bookinstance/{id}/delete", app.bookInstanceDeleteFormHandler)
		r.Post("/bookinstance/{id}/delete", app.bookInstanceDeleteHandler)
		r.Get("/bookinstance/{id}/update", app.bookInstanceUpdateFormHandler)
		r.Post("/bookinstance/{id}/update", app.bookInstanceUpdateHandler)
	})

	// recoverPanic is outermost so it catches panics from rateLimit and
	// the router alike.
	return app.recoverPanic(app.rateLimit(router))
}
