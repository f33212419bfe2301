// Package fault classifies errors into the categories the site reacts to.
package fault

import (
	"errors"
	"net/http"
)

// Kind is an error category.
type Kind uint8

const (
	// KindInternal is any unclassified failure.
	KindInternal Kind = iota
	// KindNavigation covers menu state machine, snapshot and navigation table faults.
	// The header falls back to CSS-only menus when it sees one.
	KindNavigation
	// KindNotFound is a missing page.
	KindNotFound
	// KindMedia is a missing or unplayable asset.
	KindMedia
)

func (k Kind) String() string {
	switch k {
	case KindNavigation:
		return "navigation"
	case KindNotFound:
		return "not_found"
	case KindMedia:
		return "media"
	default:
		return "internal"
	}
}

// Status maps the kind to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound, KindMedia:
		return http.StatusNotFound
	case KindNavigation:
		// navigation faults degrade the page, they never fail it
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Error is a categorized error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and the failing operation.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Navigation is shorthand for New(KindNavigation, op, err).
func Navigation(op string, err error) error { return New(KindNavigation, op, err) }

// NotFound is shorthand for New(KindNotFound, op, err).
func NotFound(op string, err error) error { return New(KindNotFound, op, err) }

// KindOf returns the kind of the outermost categorized error in the chain.
// Uncategorized errors are KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// FromPanic converts a recovered value into an error, preserving categorized errors.
func FromPanic(v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case error:
		return x
	case string:
		return New(KindInternal, "panic", errors.New(x))
	default:
		return New(KindInternal, "panic", errors.New("unknown panic"))
	}
}
