// cmd/web/handlers_bookinstance.go
// This file contains all HTTP request handlers for the book instance
// (physical copy) resource.
package main

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jonathanbernal/library-tutorial/internal/data"
	"github.com/jonathanbernal/library-tutorial/internal/validator"
)

// bookInstanceFields is the declarative validation rule set for the copy
// form. The status must be one of the fixed set; due_back is optional.
var bookInstanceFields = []validator.Field{
	{Name: "book", Rules: []validator.Rule{validator.Required()}},
	{Name: "imprint", Rules: []validator.Rule{validator.Required()}},
	{Name: "status", Rules: []validator.Rule{validator.Required(), validator.OneOf(data.InstanceStatusValues()...)}},
	{Name: "due_back", Optional: true, Rules: []validator.Rule{validator.ISODate()}},
}

// bookInstanceFormValues maps a stored copy onto the form field names.
func bookInstanceFormValues(instance *data.BookInstance) map[string]string {
	return map[string]string{
		"book":     instance.BookID.Hex(),
		"imprint":  instance.Imprint,
		"status":   string(instance.Status),
		"due_back": instance.DueBackISO(),
	}
}

// renderBookInstanceForm fetches the book reference list and renders the
// copy form. Every copy form render funnels through here.
func (app *applicationDependencies) renderBookInstanceForm(w http.ResponseWriter, r *http.Request, status int, title string, values map[string]string, v *validator.Validator) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, status, "bookinstance_form.tmpl", envelope{
		"Title":          title,
		"Instance":       values,
		"Books":          books,
		"Statuses":       data.InstanceStatusValues(),
		"SelectedBook":   values["book"],
		"SelectedStatus": values["status"],
		"Errors":         v.Errors,
		"ErrorList":      v.FieldErrors,
	})
}

// bookInstanceListHandler handles GET /catalog/bookinstances.
// The store resolves each copy's book reference so the list can show titles.
func (app *applicationDependencies) bookInstanceListHandler(w http.ResponseWriter, r *http.Request) {
	instances, err := app.models.BookInstances.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "bookinstance_list.tmpl", envelope{
		"Title":     "Book Instance List",
		"Instances": instances,
	})
}

// bookInstanceDetailHandler handles GET /catalog/bookinstance/{id}.
// Responds 404 if the copy does not exist.
func (app *applicationDependencies) bookInstanceDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	instance, err := app.models.BookInstances.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "bookinstance_detail.tmpl", envelope{
		"Title":    "Book Instance Detail",
		"Instance": instance,
	})
}

// bookInstanceCreateFormHandler handles GET /catalog/bookinstance/create.
func (app *applicationDependencies) bookInstanceCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderBookInstanceForm(w, r, http.StatusOK, "Create BookInstance", map[string]string{}, validator.New())
}

// bookInstanceCreateHandler handles POST /catalog/bookinstance/create.
func (app *applicationDependencies) bookInstanceCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	clean, v := validator.Run(r.PostForm, bookInstanceFields)
	bookID := app.parseInstanceBookRef(clean["book"], v)

	if !v.Valid() {
		app.renderBookInstanceForm(w, r, http.StatusUnprocessableEntity, "Create BookInstance", clean, v)
		return
	}

	instance := &data.BookInstance{
		BookID:  bookID,
		Imprint: clean["imprint"],
		Status:  data.InstanceStatus(clean["status"]),
		DueBack: parseDate(clean["due_back"]),
	}

	if err := app.models.BookInstances.Insert(r.Context(), instance); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, instance.URL(), http.StatusSeeOther)
}

// parseInstanceBookRef converts the submitted book identity into an
// ObjectID, recording a validation failure when it is malformed. An empty
// value is left to the Required rule.
func (app *applicationDependencies) parseInstanceBookRef(book string, v *validator.Validator) primitive.ObjectID {
	if book == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(book)
	if err != nil {
		v.AddError("book", "must be a valid selection")
		return primitive.NilObjectID
	}
	return id
}

// bookInstanceDeleteFormHandler handles GET /catalog/bookinstance/{id}/delete.
// A missing copy redirects to the copy list instead of rendering. Copies
// have no dependents, so the confirmation always offers the delete button.
func (app *applicationDependencies) bookInstanceDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/bookinstances", http.StatusSeeOther)
		return
	}

	instance, err := app.models.BookInstances.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/bookinstances", http.StatusSeeOther)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.render(w, r, http.StatusOK, "bookinstance_delete.tmpl", envelope{
		"Title":    "Delete BookInstance",
		"Instance": instance,
	})
}

// bookInstanceDeleteHandler handles POST /catalog/bookinstance/{id}/delete.
// The identity comes from the submitted form.
func (app *applicationDependencies) bookInstanceDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	id, err := readFormID(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/bookinstances", http.StatusSeeOther)
		return
	}

	err = app.models.BookInstances.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, data.ErrRecordNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/catalog/bookinstances", http.StatusSeeOther)
}

// bookInstanceUpdateFormHandler handles GET /catalog/bookinstance/{id}/update.
// Responds 404 if the copy does not exist.
func (app *applicationDependencies) bookInstanceUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	instance, err := app.models.BookInstances.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.renderBookInstanceForm(w, r, http.StatusOK, "Update BookInstance", bookInstanceFormValues(instance), validator.New())
}

// bookInstanceUpdateHandler handles POST /catalog/bookinstance/{id}/update.
func (app *applicationDependencies) bookInstanceUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	clean, v := validator.Run(r.PostForm, bookInstanceFields)
	bookID := app.parseInstanceBookRef(clean["book"], v)

	if !v.Valid() {
		app.renderBookInstanceForm(w, r, http.StatusUnprocessableEntity, "Update BookInstance", clean, v)
		return
	}

	instance := &data.BookInstance{
		ID:      id,
		BookID:  bookID,
		Imprint: clean["imprint"],
		Status:  data.InstanceStatus(clean["status"]),
		DueBack: parseDate(clean["due_back"]),
	}

	if err := app.models.BookInstances.Update(r.Context(), instance); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, instance.URL(), http.StatusSeeOther)
}
