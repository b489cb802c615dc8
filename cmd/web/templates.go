// cmd/web/templates.go
// This file builds the template cache from the embedded ui files and
// contains the render helper used by every handler.
package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/jonathanbernal/library-tutorial/ui"
)

// newTemplateCache parses every page template together with the base layout
// once at startup, keyed by the page file name. Parsing up front means a
// broken template is a startup failure, not a runtime 500.
func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).ParseFS(ui.Files, "html/base.tmpl", page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

// executeTemplate renders the "base" template into a buffer. Rendering to a
// buffer first means a template failure never produces a partial response.
func executeTemplate(ts *template.Template, payload envelope) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", payload); err != nil {
		return nil, err
	}
	return buf, nil
}

// render writes the named page with the given payload and status code.
// A missing or failing template surfaces as a 500 via serverErrorResponse.
func (app *applicationDependencies) render(w http.ResponseWriter, r *http.Request, status int, page string, payload envelope) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.serverErrorResponse(w, r, fmt.Errorf("the template %q does not exist", page))
		return
	}

	buf, err := executeTemplate(ts, payload)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(status)
	buf.WriteTo(w)
}
