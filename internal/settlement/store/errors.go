package store

import "consortium/pkg/platform/sentinel"

// Store errors are sentinel facts; the service translates them to domain errors.
var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)
