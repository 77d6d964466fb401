package models

import (
	"time"
)

// TripState represents the current state of a trip. States are strictly
// ordered; a trip only ever moves forward through them.
type TripState string

const (
	TripStateRequested  TripState = "REQUESTED"
	TripStateAccepted   TripState = "ACCEPTED"
	TripStateInProgress TripState = "IN_PROGRESS"
	TripStateCompleted  TripState = "COMPLETED"
)

// stateOrdinals maps each state to its position in the lifecycle.
var stateOrdinals = map[TripState]int{
	TripStateRequested:  0,
	TripStateAccepted:   1,
	TripStateInProgress: 2,
	TripStateCompleted:  3,
}

// Ordinal returns the position of the state in the trip lifecycle, or -1
// for an unknown state. Consumers use it to discard stale deliveries:
// an update whose ordinal is not strictly greater than the last observed
// one carries no new information.
func (s TripState) Ordinal() int {
	if ord, ok := stateOrdinals[s]; ok {
		return ord
	}
	return -1
}

// Valid reports whether the state is one of the known lifecycle states.
func (s TripState) Valid() bool {
	_, ok := stateOrdinals[s]
	return ok
}

// Terminal reports whether the state admits no further transitions.
func (s TripState) Terminal() bool {
	return s == TripStateCompleted
}

// Next returns the state that follows s in the lifecycle. The second
// return value is false when s is terminal or unknown.
func (s TripState) Next() (TripState, bool) {
	switch s {
	case TripStateRequested:
		return TripStateAccepted, true
	case TripStateAccepted:
		return TripStateInProgress, true
	case TripStateInProgress:
		return TripStateCompleted, true
	}
	return "", false
}

// Trip represents a single requested ride from pickup to destination.
// Trips are keyed by passenger: a passenger has at most one trip that is
// not COMPLETED at any time. Pickup and destination are set at creation
// and immutable afterwards; DriverID is set exactly once by a successful
// accept and immutable afterwards.
type Trip struct {
	PassengerID string     `json:"passenger_id" db:"passenger_id"`
	DriverID    *string    `json:"driver_id,omitempty" db:"driver_id"`
	Pickup      Coordinate `json:"pickup"`
	Destination Coordinate `json:"destination"`
	State       TripState  `json:"state" db:"state"`
	RequestedAt time.Time  `json:"requested_at" db:"requested_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Active reports whether the trip still occupies the passenger's single
// active-trip slot.
func (t *Trip) Active() bool {
	return !t.State.Terminal()
}
