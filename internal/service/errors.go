package service

import "errors"

// Business-rule errors surfaced to handlers, which map them to 4xx responses.
// Anything else coming out of a service is treated as a server fault.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email already registered")
)
