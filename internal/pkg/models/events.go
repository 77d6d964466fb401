package models

import "time"

// TripEvent is the payload published on the trip subjects. Delivery is
// at-least-once: consumers must tolerate duplicates and enforce ordering
// themselves via Trip.State.Ordinal().
type TripEvent struct {
	Trip      Trip      `json:"trip"`
	EmittedAt time.Time `json:"emitted_at"`
}
