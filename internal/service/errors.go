package service

import "errors"

var (
	// ErrForbidden means the acting user is neither the owner nor a buddy
	// with sufficient access for the attempted operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation wraps caller-input failures (empty required text,
	// malformed or out-of-range values).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials means the login password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
