package model

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound signals that the requested id or handle does not exist
// upstream. It is a valid empty result, not a failure.
var ErrNotFound = errors.New("resource not found")

// ErrConflict signals a duplicate unique key on insert. Writers racing on
// the same fingerprint treat it as benign and fall back to a read.
var ErrConflict = errors.New("duplicate key")

// TransportError wraps a failure talking to the upstream API or storage.
// It is never cached and always surfaced to the caller.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a deadline expiry, either from the
// context or wrapped inside a TransportError.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// ParseError describes a malformed reference-data row. The loader skips
// the row and keeps going; the error is only used for logging.
type ParseError struct {
	Resource string
	Line     int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.Resource, e.Line, e.Reason)
}
