package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"yatube/app/models"
)

// ErrForbidden is returned when the acting user may not touch a record.
var ErrForbidden = errors.New("forbidden")

// ValidationError carries per-field messages for form re-rendering.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// fieldError builds a single-field ValidationError.
func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validationError converts a model validation failure into a
// ValidationError, passing any other error through.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	if fields := models.FieldErrors(err); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return err
}
