// Package common defines shared sentinel errors and the tagged storage
// error used across the server layers. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors. Rejected before any state is mutated.
	ErrEmptyUsername    = errors.New("empty username")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")

	// Credential errors. A deliberate auth failure, not an infra fault.
	ErrWrongPassword = errors.New("wrong password")

	// Hashing subsystem faults.
	ErrHashCreate = errors.New("hash create error")
	ErrHashParse  = errors.New("hash parse error")

	// Session errors (id does not resolve to a live session).
	ErrInvalidSession = errors.New("invalid session")
)

// StoreOp tags a StoreError with the storage operation that failed.
type StoreOp string

const (
	OpInsert StoreOp = "insert"
	OpSelect StoreOp = "select"
	OpDelete StoreOp = "delete"
	OpOther  StoreOp = "other"
)

// StoreError wraps a storage failure with the operation that caused it.
// The tag is the only part meant for programmatic branching; the wrapped
// error is diagnostic.
type StoreError struct {
	Op  StoreOp
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s error: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err in a StoreError with the given operation tag.
func NewStoreError(op StoreOp, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
