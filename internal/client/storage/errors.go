package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrMetadataNotFound indicates that metadata key was not found
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
