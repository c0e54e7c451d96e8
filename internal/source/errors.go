package source

import (
	"errors"
	"fmt"
)

// Kind classifies a source failure.
type Kind string

const (
	// KindNetwork covers transport errors and non-2xx responses.
	KindNetwork Kind = "network"

	// KindParse covers malformed or unexpected JSON.
	KindParse Kind = "parse"

	// KindBackend covers well-formed responses carrying an "error" field.
	KindBackend Kind = "backend"
)

// Error is returned by every [Client] method that fails.
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Op names the backend operation, e.g. "weather" or "command toggle".
	Op string

	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status, zero if no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 && e.Kind == KindNetwork {
		return fmt.Sprintf("%s: %s failure (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a source [*Error] of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
