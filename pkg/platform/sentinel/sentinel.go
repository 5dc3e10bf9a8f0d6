package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with the right
// taxonomy code.
//
// These represent factual states about stored records, not validation
// failures:
// - ErrNotFound: record does not exist in the store
// - ErrAlreadyUsed: a uniqueness constraint (name, employee/test pair) is taken
// - ErrInvalidState: record is in the wrong state for the requested mutation
// - ErrUnavailable: the backing store is temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
