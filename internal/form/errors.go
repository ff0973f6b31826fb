// Package form holds the validated inputs of the HTML forms.
package form

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Errors maps a field name to the message shown next to it. The empty key
// "__all__" carries errors that do not belong to one field.
type Errors map[string]string

// NonField is the key used for form wide errors.
const NonField = "__all__"

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = msg
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

// Valid reports whether no error has been recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Error joins the messages in field order so Errors can travel as an error.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

func fromValidation(err error) Errors {
	out := Errors{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, fieldErr := range verrs {
			if fieldErr == nil {
				continue
			}
			out.Add(field, fieldErr.Error())
		}
		return out
	}

	out.Add(NonField, err.Error())
	return out
}
