// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bigjson

import (
	"errors"
	"fmt"
)

// Error kinds reported by the reader and the lazy views. Use errors.Is to
// classify an error returned by this package.
var (
	// ErrSyntax reports a malformed literal, number, string, or escape.
	ErrSyntax = errors.New("invalid JSON")

	// ErrStructure reports that an expected delimiter was missing.
	ErrStructure = errors.New("structural error")

	// ErrKeyType reports an object key that is not a string.
	ErrKeyType = errors.New("object key is not a string")

	// ErrIndexRange reports an array index outside the array.
	ErrIndexRange = errors.New("index out of range")

	// ErrKeyNotFound reports a lookup for a key absent from an object.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotFound reports a search for a value absent from an array.
	ErrNotFound = errors.New("value not found")
)

// SyntaxError is the concrete type of errors reported for malformed input.
// It unwraps to one of ErrSyntax, ErrStructure, or ErrKeyType.
type SyntaxError struct {
	Offset  int64  // byte offset of the error in the input
	Message string // description of the problem

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", s.Offset, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

func (r *Reader) failf(kind error, msg string, args ...any) error {
	return &SyntaxError{Offset: r.pos, Message: fmt.Sprintf(msg, args...), err: kind}
}

// ioError annotates an I/O error from the underlying stream with the current
// offset.
type ioError struct {
	pos int64
	err error
}

func (e ioError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.err.Error(), e.pos)
}

func (e ioError) Unwrap() error { return e.err }
