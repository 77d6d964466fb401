package trips

import "errors"

var (
	// ErrAlreadyActive is returned when a passenger requests a trip
	// while a non-terminal one already exists.
	ErrAlreadyActive = errors.New("passenger already has an active trip")

	// ErrTripNotFound is returned when no trip exists for the passenger.
	ErrTripNotFound = errors.New("trip not found")

	// ErrAlreadyAccepted is returned to a driver who lost the accept
	// race. Exactly one driver wins; everyone else sees this error.
	ErrAlreadyAccepted = errors.New("trip already accepted by another driver")

	// ErrInvalidTransition is returned when a state change is attempted
	// out of order or by a driver not assigned to the trip.
	ErrInvalidTransition = errors.New("invalid trip state transition")

	// ErrTripAlreadyCompleted is returned when mutating a trip that has
	// reached its terminal state.
	ErrTripAlreadyCompleted = errors.New("trip already completed")

	// ErrInvalidCoordinates is returned when pickup or destination are
	// outside valid bounds.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
