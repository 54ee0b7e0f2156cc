package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: record does not exist in store
// - ErrConflict: a write collides with an existing record (overlapping report range)
// - ErrAlreadyUsed: resource already claimed (range lock held by another owner)
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, negative amounts), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
