// Package validate holds the field-scoped validation error type shared by
// services and handlers. A failing request collects every message under its
// field name and the whole map is serialized as the 400 response body.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the list of messages recorded against it.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// Error implements the error interface.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f + ": " + strings.Join(e[f], ", "))
	}
	return b.String()
}

// AsErrors unwraps err into Errors if it carries one.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// FromBinding converts a gin binding failure into field-scoped Errors so
// payload errors share the same response shape as service-level validation.
func FromBinding(err error) Errors {
	out := Errors{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out.Add("detail", err.Error())
		return out
	}
	for _, fe := range ves {
		out.Add(strings.ToLower(fe.Field()), bindingMessage(fe))
	}
	return out
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %q validation.", fe.Tag())
	}
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CheckSlug records a message against field when value is not a URL-safe
// slug. Slugs are the alternate keys of categories and genres.
func (e Errors) CheckSlug(field, value string) {
	if !slugPattern.MatchString(value) {
		e.Add(field, "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
}
