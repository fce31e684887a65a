package domain

import (
	"errors"
	"strings"
)

// ErrInvalidResponse marks a backend payload that failed the parse step.
var ErrInvalidResponse = errors.New("invalid response")

type FieldError struct {
	Field   string
	Message string
}

// A ValidationError is a client-side form failure. It never reaches the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the message for the named field, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}
