package storage

import "errors"

// Common storage errors
var (
	// ErrTaskNotFound indicates that no pending task exists for the device
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidLimit indicates that list limit is out of range
	ErrInvalidLimit = errors.New("invalid limit")
)
