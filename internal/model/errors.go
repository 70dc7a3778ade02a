package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by stores on a unique constraint conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("authorization token is missing")
	ErrTokenExpired       = errors.New("authorization token is expired")
	ErrTokenMalformed     = errors.New("authorization token is malformed")
	// ErrForbidden means the token is valid but its role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
)

// IdentityStoreError reports a storage failure while finding or creating an
// identity. No token is issued when it is returned.
type IdentityStoreError struct {
	Op  string
	Err error
}

func (e *IdentityStoreError) Error() string {
	return fmt.Sprintf("identity store: %s: %v", e.Op, e.Err)
}

func (e *IdentityStoreError) Unwrap() error {
	return e.Err
}

// NewIdentityStoreError wraps err with the failed operation name.
func NewIdentityStoreError(op string, err error) error {
	return &IdentityStoreError{Op: op, Err: err}
}

// InvalidInputf builds an ErrInvalidInput with details.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
