// Package common defines shared constants and sentinel errors used across
// the server, the transports and the CLI client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrValidation     = errors.New("validation error")

	// Auth errors. Both are reported to callers as "unauthorized".
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownSubject = errors.New("unknown subject")

	// Login throttling.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
