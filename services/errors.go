package services

import "errors"

var (
	// ErrPicksLocked is returned for any pick mutation after the pool's
	// pick deadline has passed.
	ErrPicksLocked = errors.New("pick deadline has passed")

	// ErrBracketNotSeeded is returned when a pool has no games yet.
	ErrBracketNotSeeded = errors.New("pool has no seeded bracket")

	// ErrBracketCorrupt wraps a structural validation failure of the
	// seeded game graph.
	ErrBracketCorrupt = errors.New("bracket graph failed validation")

	ErrForbidden = errors.New("operation not permitted for this user")
)
