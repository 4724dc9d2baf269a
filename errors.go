package kplan

import "errors"

var (
	// ErrInvalidState is returned for lifecycle-gated mutations on a plan
	// that is already pruned or loop-isolated.
	ErrInvalidState = errors.New("kplan: invalid plan state")
	// ErrValidation is returned when a structural precondition is violated.
	ErrValidation = errors.New("kplan: validation failed")
)
