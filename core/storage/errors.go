package storage

import (
	"errors"
	"fmt"
)

// Error kinds returned by every Adapter implementation.
// Match them with errors.Is.
var (
	// ErrInvalidKey means the key is malformed or would resolve outside the root.
	ErrInvalidKey = errors.New("invalid key")
	// ErrNotFound means the read or list target does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNetworkFailure means a remote fetch could not be established or returned a non-success status.
	ErrNetworkFailure = errors.New("network failure")
	// ErrIOFailure covers any local read, write, mkdir or unlink error.
	ErrIOFailure = errors.New("io failure")
)

// Error describes a failed adapter operation.
type Error struct {
	// Op is the adapter operation, e.g. "create" or "list".
	Op string
	// Key is the logical key the operation was called with.
	Key string
	// Kind is one of the Err* sentinels above.
	Kind error
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Kind)
	}
	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %q: %v: %v", e.Op, e.Key, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, key string, kind, err error) *Error {
	return &Error{Op: op, Key: key, Kind: kind, Err: err}
}

// wrapError classifies err by the kind it already carries, defaulting to ErrIOFailure.
func wrapError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindOf(err)
	if kind == nil {
		kind = ErrIOFailure
	}
	return newError(op, key, kind, err)
}

// KindOf returns the sentinel kind carried by err, or nil when err is not a storage error.
func KindOf(err error) error {
	for _, kind := range []error{ErrInvalidKey, ErrNotFound, ErrNetworkFailure, ErrIOFailure} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
