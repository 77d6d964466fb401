package trips

import (
	"context"

	"github.com/openride/dispatch/internal/pkg/models"
)

// TripGW defines the interface for publishing trip events
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/openride/dispatch/services/trips TripGW
type TripGW interface {
	// PublishTripRequested fans a newly requested trip out to every
	// subscribed driver.
	PublishTripRequested(ctx context.Context, trip *models.Trip) error

	// PublishTripUpdated notifies the owning passenger of a state change.
	PublishTripUpdated(ctx context.Context, trip *models.Trip) error
}
