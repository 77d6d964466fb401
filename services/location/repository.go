package location

import (
	"context"

	"github.com/openride/dispatch/internal/pkg/models"
)

// LocationRepo defines the interface for the geospatial index behind
// the driver location feed.
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/openride/dispatch/services/location LocationRepo
type LocationRepo interface {
	// UpsertLocation stores the fix, last-write-wins by UpdatedAt.
	UpsertLocation(ctx context.Context, entry models.DriverLocationEntry) error

	// GetLocation returns the stored fix for a driver, nil when none.
	GetLocation(ctx context.Context, driverID string) (*models.DriverLocationEntry, error)

	// QueryNearby returns all stored entries within radiusMeters of
	// center together with their distance from it.
	QueryNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]models.NearbyDriver, error)
}
