package domain

import "errors"

var (
	// ErrNotFound is wrapped by every "no such record" error.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is wrapped by every input validation error.
	ErrInvalidInput = errors.New("invalid input")
)
