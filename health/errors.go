package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrRoundTripMismatch indicates the store returned something other than
	// the sample record it was given.
	ErrRoundTripMismatch = errors.New("health: round-trip record mismatch")

	// ErrNoCheckers indicates no checkers were given.
	ErrNoCheckers = errors.New("health: no checkers registered")
)
