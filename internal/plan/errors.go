package plan

import (
	"errors"
	"fmt"
)

// ErrorKind classifies validation failures. All kinds are user-correctable.
type ErrorKind string

const (
	KindInvalidHeight ErrorKind = "invalid_height"
	KindInvalidInput  ErrorKind = "invalid_input"
	KindMissingInput  ErrorKind = "missing_input"
)

var messages = map[ErrorKind]string{
	KindInvalidHeight: "Invalid height: ensure feet is non-negative and inches are between 0 and 11.",
	KindInvalidInput:  "Invalid input. Please ensure all fields are filled correctly with numbers.",
	KindMissingInput:  "Missing input. Please fill all fields, including feet and inches for height.",
}

// Error is a validation failure on a single form field.
type Error struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("plan: %s", e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message is the fixed text shown to the user for this kind of failure.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return messages[e.Kind]
}

// IsKind reports whether err is a validation error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// UserMessage returns the user-facing text for a validation error, or "" if
// err is not one.
func UserMessage(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message()
	}
	return ""
}
