package domain

import "errors"

var (
	// ErrUserNotFound is returned when the requested user id falls outside
	// the known user universe.
	ErrUserNotFound = errors.New("user not found")

	// ErrModelNotFound is returned when no model is registered under the
	// requested name.
	ErrModelNotFound = errors.New("model not found")
)
