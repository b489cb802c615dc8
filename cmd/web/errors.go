// cmd/web/errors.go
// This file contains all error-response helpers for the application.
// Keeping error helpers in a dedicated file makes them easy to find and extend.
package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse renders the shared error page with the given status code
// and message. It is the low-level building block used by all the specific
// error helpers below. If the error page itself fails to render, a plain
// text response is the fallback so the client always gets something.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message, trace string) {
	payload := envelope{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
		"Trace":   trace,
	}

	ts, ok := app.templateCache["error.tmpl"]
	if !ok {
		http.Error(w, message, status)
		return
	}

	buf, err := executeTemplate(ts, payload)
	if err != nil {
		app.logError(r, err)
		http.Error(w, message, status)
		return
	}

	w.WriteHeader(status)
	buf.WriteTo(w)
}

// serverErrorResponse logs a 500-level error and renders the error page.
// The client only sees a generic message unless the application is running
// in development mode, in which case the error and a stack trace are
// included on the page.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	var trace string
	if app.config.environment == "development" {
		trace = err.Error() + "\n" + string(debug.Stack())
	}
	app.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request", trace)
}

// notFoundResponse renders a 404 Not Found error page.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found", "")
}

// methodNotAllowedResponse renders a 405 Method Not Allowed error page.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message, "")
}

// badRequestResponse renders a 400 Bad Request error page with the error message from the caller.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error(), "")
}

// rateLimitExceededResponse renders a 429 Too Many Requests error page.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded", "")
}
