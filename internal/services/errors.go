package services

import "errors"

// Common service errors. Handlers map these onto HTTP statuses; anything
// else is a store failure and surfaces as a 500.
var (
	ErrNotFound           = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
