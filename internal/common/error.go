// Package common defines shared constants and sentinel errors used across
// the thesis archive components. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Authentication errors. ErrInvalidCredentials deliberately covers
	// unknown email, wrong password, and unverified account so that the
	// outcome never reveals which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")

	// Session token errors (invalid, malformed, or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
