package location

import "errors"

var (
	// ErrInvalidCoordinates is returned when a reported fix is outside
	// valid bounds.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidRadius is returned for a non-positive query radius.
	ErrInvalidRadius = errors.New("radius must be positive")
)
