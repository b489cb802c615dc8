// Package validator provides a Validator type for accumulating field-level
// validation errors, plus the declarative rule tables applied to form input.
package validator

// FieldError records a single validation failure: the offending form field
// and a human-readable message suitable for display next to the input.
type FieldError struct {
	Field   string
	Message string
}

// Validator holds validation failures both as a map (for per-field lookup
// when re-rendering a form) and as an ordered slice (for display in the
// order the rule tables declare the fields).
// A Validator with no recorded errors is considered valid.
type Validator struct {
	Errors      map[string]string
	FieldErrors []FieldError
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if no errors have been recorded.
func (v *Validator) Valid() bool {
	return len(v.FieldErrors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; exists {
		return
	}
	v.Errors[key] = message
	v.FieldErrors = append(v.FieldErrors, FieldError{Field: key, Message: message})
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}
