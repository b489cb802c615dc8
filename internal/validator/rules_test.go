package validator_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathanbernal/library-tutorial/internal/validator"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  Jane  ", "Jane"},
		{"escapes markup", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"trims then escapes", "  a & b  ", "a &amp; b"},
		{"whitespace only becomes empty", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.Sanitize(tt.input))
		})
	}
}

func TestRunRequired(t *testing.T) {
	fields := []validator.Field{
		{Name: "title", Rules: []validator.Rule{validator.Required()}},
	}

	t.Run("missing field fails", func(t *testing.T) {
		clean, v := validator.Run(url.Values{}, fields)
		assert.False(t, v.Valid())
		assert.Equal(t, "must not be empty", v.Errors["title"])
		assert.Equal(t, "", clean["title"])
	})

	t.Run("whitespace-only value fails", func(t *testing.T) {
		_, v := validator.Run(url.Values{"title": {"   "}}, fields)
		assert.False(t, v.Valid())
	})

	t.Run("present value passes and is sanitized", func(t *testing.T) {
		clean, v := validator.Run(url.Values{"title": {"  The Hobbit "}}, fields)
		assert.True(t, v.Valid())
		assert.Equal(t, "The Hobbit", clean["title"])
	})
}

func TestRunLengthRules(t *testing.T) {
	fields := []validator.Field{
		{Name: "name", Rules: []validator.Rule{validator.Required(), validator.MinLength(3)}},
	}

	_, v := validator.Run(url.Values{"name": {"ab"}}, fields)
	assert.False(t, v.Valid())
	assert.Equal(t, "must be at least 3 characters long", v.Errors["name"])

	_, v = validator.Run(url.Values{"name": {"abc"}}, fields)
	assert.True(t, v.Valid())

	long := []validator.Field{
		{Name: "name", Rules: []validator.Rule{validator.MaxLength(5)}},
	}
	_, v = validator.Run(url.Values{"name": {"abcdef"}}, long)
	assert.Equal(t, "must be at most 5 characters long", v.Errors["name"])
}

func TestRunISODate(t *testing.T) {
	fields := []validator.Field{
		{Name: "date_of_birth", Optional: true, Rules: []validator.Rule{validator.ISODate()}},
	}

	t.Run("empty optional date passes", func(t *testing.T) {
		_, v := validator.Run(url.Values{}, fields)
		assert.True(t, v.Valid())
	})

	t.Run("valid date passes", func(t *testing.T) {
		_, v := validator.Run(url.Values{"date_of_birth": {"1775-12-16"}}, fields)
		assert.True(t, v.Valid())
	})

	t.Run("garbage fails", func(t *testing.T) {
		_, v := validator.Run(url.Values{"date_of_birth": {"not-a-date"}}, fields)
		assert.False(t, v.Valid())
		assert.Equal(t, "must be a valid date", v.Errors["date_of_birth"])
	})

	t.Run("impossible date fails", func(t *testing.T) {
		_, v := validator.Run(url.Values{"date_of_birth": {"2020-13-40"}}, fields)
		assert.False(t, v.Valid())
	})
}

func TestRunOneOf(t *testing.T) {
	fields := []validator.Field{
		{Name: "status", Rules: []validator.Rule{validator.OneOf("Available", "Loaned")}},
	}

	_, v := validator.Run(url.Values{"status": {"Available"}}, fields)
	assert.True(t, v.Valid())

	_, v = validator.Run(url.Values{"status": {"Lost"}}, fields)
	assert.False(t, v.Valid())
	assert.Equal(t, "must be one of: Available, Loaned", v.Errors["status"])
}

func TestRunFailureOrder(t *testing.T) {
	// Failures must come back in rule-table order, not map order.
	fields := []validator.Field{
		{Name: "first_name", Rules: []validator.Rule{validator.Required()}},
		{Name: "family_name", Rules: []validator.Rule{validator.Required()}},
		{Name: "date_of_birth", Optional: true, Rules: []validator.Rule{validator.ISODate()}},
	}

	_, v := validator.Run(url.Values{"date_of_birth": {"junk"}}, fields)
	require.Len(t, v.FieldErrors, 3)
	assert.Equal(t, "first_name", v.FieldErrors[0].Field)
	assert.Equal(t, "family_name", v.FieldErrors[1].Field)
	assert.Equal(t, "date_of_birth", v.FieldErrors[2].Field)
}

func TestRunFirstErrorWins(t *testing.T) {
	// Only the first failing rule for a field is reported.
	fields := []validator.Field{
		{Name: "name", Rules: []validator.Rule{validator.Required(), validator.MinLength(3)}},
	}

	_, v := validator.Run(url.Values{"name": {""}}, fields)
	require.Len(t, v.FieldErrors, 1)
	assert.Equal(t, "must not be empty", v.FieldErrors[0].Message)
}

func TestValidatorAddError(t *testing.T) {
	v := validator.New()
	assert.True(t, v.Valid())

	v.AddError("title", "first message")
	v.AddError("title", "second message")

	assert.False(t, v.Valid())
	assert.Equal(t, "first message", v.Errors["title"])
	require.Len(t, v.FieldErrors, 1)
}
