// This file contains the declarative validation rules applied to raw form
// input. Each entity's rule set is a static []Field table defined next to
// its handlers; Run is the single execution function shared by all of them.
package validator

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Rule pairs a predicate with the message reported when it fails.
// Rules receive the sanitized value, never the raw form input.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Field names a form field and the ordered rules applied to it.
// Optional fields skip their rules entirely when the sanitized value is
// empty, so "absent" and "present but invalid" are distinct outcomes.
type Field struct {
	Name     string
	Optional bool
	Rules    []Rule
}

// Required fails on an empty value.
func Required() Rule {
	return Rule{
		Check:   func(value string) bool { return value != "" },
		Message: "must not be empty",
	}
}

// MinLength fails when the value is shorter than n characters.
func MinLength(n int) Rule {
	return Rule{
		Check:   func(value string) bool { return utf8.RuneCountInString(value) >= n },
		Message: fmt.Sprintf("must be at least %d characters long", n),
	}
}

// MaxLength fails when the value is longer than n characters.
func MaxLength(n int) Rule {
	return Rule{
		Check:   func(value string) bool { return utf8.RuneCountInString(value) <= n },
		Message: fmt.Sprintf("must be at most %d characters long", n),
	}
}

// ISODate fails unless the value parses as a calendar date in the
// ISO-8601 form 2006-01-02.
func ISODate() Rule {
	return Rule{
		Check: func(value string) bool {
			_, err := time.Parse("2006-01-02", value)
			return err == nil
		},
		Message: "must be a valid date",
	}
}

// OneOf fails unless the value is one of the allowed values.
func OneOf(allowed ...string) Rule {
	return Rule{
		Check:   func(value string) bool { return In(value, allowed...) },
		Message: "must be one of: " + strings.Join(allowed, ", "),
	}
}

// Sanitize trims surrounding whitespace and escapes markup-significant
// characters, so stored values are safe to echo back into a form.
func Sanitize(value string) string {
	return html.EscapeString(strings.TrimSpace(value))
}

// Run applies a rule table to raw form input. It returns the sanitized
// value of every field named in the table (keyed by field name) and a
// Validator carrying the failures in table order. Run is a pure function
// of its inputs; it never consults the store.
func Run(form url.Values, fields []Field) (map[string]string, *Validator) {
	v := New()
	clean := make(map[string]string, len(fields))

	for _, f := range fields {
		var raw string
		if values := form[f.Name]; len(values) > 0 {
			raw = values[0]
		}

		value := Sanitize(raw)
		clean[f.Name] = value

		if f.Optional && value == "" {
			continue
		}

		// First failing rule wins; later rules for the same field are
		// not evaluated, so messages never contradict each other.
		for _, rule := range f.Rules {
			if !rule.Check(value) {
				v.AddError(f.Name, rule.Message)
				break
			}
		}
	}

	return clean, v
}
