// Package common contains shared constants and sentinel errors used across
// storeauth components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Registration errors.
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateIdentity = errors.New("identity already registered")

	// Login errors. ErrInvalidCredentials covers both an unknown email and
	// a password mismatch so the response never reveals which factor failed.
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token extraction / verification errors. ErrInvalidToken covers
	// expired, tampered and malformed tokens alike.
	ErrMissingToken    = errors.New("missing token")
	ErrMalformedHeader = errors.New("malformed authorization header")
	ErrInvalidToken    = errors.New("invalid token")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")
)
