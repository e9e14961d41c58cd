package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, lockers and other
// infrastructure return these (optionally wrapped) so services can translate
// them into domain errors.
//
//   - ErrNotFound: entity does not exist in the tenant's partition
//   - ErrConflict: a uniqueness intent was violated (shift tuple, shift id)
//   - ErrInvalidState: entity is in the wrong state for the operation
//   - ErrUnavailable: an aggregate lock could not be acquired; retry later
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
