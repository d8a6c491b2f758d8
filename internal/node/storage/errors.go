package storage

import "errors"

// Common node storage errors
var (
	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrEmptyTaskID indicates that task id is empty
	ErrEmptyTaskID = errors.New("task id is empty")
)
