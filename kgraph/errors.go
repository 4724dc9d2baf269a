package kgraph

import "errors"

// Sentinel errors for common failure cases.
var (
	ErrOperatorNotFound      = errors.New("operator not found")
	ErrOperatorAlreadyExists = errors.New("operator already exists")
	ErrInvalidName           = errors.New("invalid name")
	ErrSlotNotFound          = errors.New("slot not found")
	ErrAlreadyOccupied       = errors.New("input slot already occupied")
	ErrInvalidNesting        = errors.New("invalid nesting")
	ErrInconsistentEdge      = errors.New("inconsistent edge")
	ErrCycleDetected         = errors.New("cycle detected")
)
