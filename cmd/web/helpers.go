// cmd/web/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// envelope is the data payload handed to the view renderer alongside a
// template name. Every page render is a map with named keys, e.g.
// {"Title": ..., "Books": [...]}.
type envelope map[string]any

// errInvalidID is returned when a submitted or URL-supplied identity is not
// a well-formed ObjectID hex string.
var errInvalidID = errors.New("invalid id parameter")

// readIDParam extracts and validates the "{id}" URL parameter added by chi.
// A malformed value cannot resolve to any record, so callers treat the
// error as not-found.
func (app *applicationDependencies) readIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

// readFormID parses the "id" field of a submitted form as an ObjectID.
// Delete submissions carry the identity in the form body, not the URL.
func readFormID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(r.PostForm.Get("id"))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

// parseDate converts a sanitized ISO-8601 form value to a *time.Time.
// Empty input means the optional date was not supplied. Callers only pass
// values the ISODate rule has already accepted, so a parse failure here
// maps to nil as well.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// readGenreList normalizes the multi-valued "genre" form field before
// validation: an absent field becomes an empty list and a single submitted
// value becomes a one-element list.
func readGenreList(r *http.Request) []string {
	values := r.PostForm["genre"]
	if values == nil {
		return []string{}
	}
	return values
}
