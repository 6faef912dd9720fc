package fetch

import "fmt"

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	ErrNetwork ErrorKind = "network"
	ErrTimeout ErrorKind = "timeout"
	ErrParse   ErrorKind = "parse"
)

// Error is a classified fetch failure. Callers decide retry behavior
// from Kind without string-matching the wrapped error.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
