package trips

import (
	"context"
	"time"

	"github.com/openride/dispatch/internal/pkg/models"
)

// TripRepo defines the interface for trip data access. Trips are keyed
// by passenger id; the compare-and-set operations must be atomic
// against the backing store.
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/openride/dispatch/services/trips TripRepo
type TripRepo interface {
	// CreateTrip persists a new REQUESTED trip. A passenger slot
	// holding a COMPLETED trip is reclaimed; a non-terminal trip makes
	// the call fail with ErrAlreadyActive.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip performs a point read, ErrTripNotFound when absent.
	GetTrip(ctx context.Context, passengerID string) (*models.Trip, error)

	// AcceptTrip assigns the driver and moves the trip to ACCEPTED iff
	// it is still REQUESTED and unassigned. A lost race yields
	// ErrAlreadyAccepted.
	AcceptTrip(ctx context.Context, passengerID, driverID string, acceptedAt time.Time) (*models.Trip, error)

	// AdvanceState moves the trip from one state to the next iff the
	// current state equals from and the trip is assigned to driverID.
	AdvanceState(ctx context.Context, passengerID, driverID string, from, to models.TripState, at time.Time) (*models.Trip, error)
}
