package trips

import (
	"context"

	"github.com/openride/dispatch/internal/pkg/models"
)

// TripUC defines the interface for the trip lifecycle state machine
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/openride/dispatch/services/trips TripUC
type TripUC interface {
	// RequestTrip creates a trip in REQUESTED state for the passenger.
	// Fails with ErrAlreadyActive while a non-terminal trip exists.
	RequestTrip(ctx context.Context, passengerID string, pickup, destination models.Coordinate) (*models.Trip, error)

	// GetTrip returns the passenger's trip, ErrTripNotFound if absent.
	GetTrip(ctx context.Context, passengerID string) (*models.Trip, error)

	// AcceptTrip moves REQUESTED to ACCEPTED and assigns the driver.
	// Under concurrent accepts exactly one caller succeeds; the rest
	// fail with ErrAlreadyAccepted.
	AcceptTrip(ctx context.Context, passengerID, driverID string) (*models.Trip, error)

	// StartTrip moves ACCEPTED to IN_PROGRESS, assigned driver only.
	StartTrip(ctx context.Context, passengerID, driverID string) (*models.Trip, error)

	// CompleteTrip moves IN_PROGRESS to COMPLETED, assigned driver only.
	CompleteTrip(ctx context.Context, passengerID, driverID string) (*models.Trip, error)
}
