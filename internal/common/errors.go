// Package common defines sentinel errors shared by the storage, service and
// transport layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Registration outcomes.
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("email already registered")
	ErrConnection = errors.New("connection error")
)

// ValidationError describes a client input problem. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConnectionError reports that storage could not be reached. Code is the
// driver specific error code (SQLSTATE, errno, server code) or "0" when the
// driver does not provide one. It matches ErrConnection.
type ConnectionError struct {
	Code string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Connect Error(%s)%v", e.Code, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}
