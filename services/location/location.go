package location

import (
	"context"

	"github.com/openride/dispatch/internal/pkg/models"
)

// LocationUC defines the interface for the driver location feed
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/openride/dispatch/services/location LocationUC
type LocationUC interface {
	// UpsertLocation records a driver's latest fix. Last write wins by
	// timestamp: a fix older than the stored one is ignored. Idempotent.
	UpsertLocation(ctx context.Context, entry models.DriverLocationEntry) error

	// QueryNearby returns the drivers within radiusMeters of center,
	// snapshot-consistent at call time and in no particular order.
	QueryNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]models.NearbyDriver, error)
}
