package gqlclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFieldsSelected is returned when a selection includes no field.
	ErrNoFieldsSelected = errors.New("no fields selected")
	// ErrUnexpectedResponse is returned when the response does not carry the
	// operation's field.
	ErrUnexpectedResponse = errors.New("unexpected response")
	// ErrEmptyEnumValue is returned when an enum value is the empty string,
	// usually a zero value left in an input struct.
	ErrEmptyEnumValue = errors.New("empty enum value")
)

// RequiredArgumentError reports a required argument that was missing. It is
// returned before anything is sent.
type RequiredArgumentError struct {
	Argument string
}

func (e *RequiredArgumentError) Error() string {
	return e.Argument + " is required"
}

// Location is a position in a document reported by the server.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a single entry of a GraphQL errors array.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Path))
	for _, p := range e.Path {
		parts = append(parts, fmt.Sprint(p))
	}
	return fmt.Sprintf("%s (path: %s)", e.Message, strings.Join(parts, "."))
}

// Errors is the errors array of a GraphQL response.
type Errors []Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no graphql errors"
	}
	if len(e) == 1 {
		return "graphql: " + e[0].Error()
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("graphql: %d errors: %s", len(e), strings.Join(messages, "; "))
}
