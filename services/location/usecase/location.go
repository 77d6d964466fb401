package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/pkg/retry"
	"github.com/openride/dispatch/services/location"
)

// LocationUC implements the driver location feed on top of the
// geospatial repository.
type LocationUC struct {
	cfg          *models.Config
	locationRepo location.LocationRepo
	retrier      *retry.Retrier
}

// NewLocationUC creates a new location usecase
func NewLocationUC(cfg *models.Config, locationRepo location.LocationRepo) *LocationUC {
	retryCfg := retry.Config{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
		MaxDelay:   time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
		Multiplier: 2.0,
		Jitter:     true,
		RetryableFunc: func(err error) bool {
			return errors.Is(err, database.ErrStoreUnavailable)
		},
	}

	return &LocationUC{
		cfg:          cfg,
		locationRepo: locationRepo,
		retrier:      retry.New(retryCfg),
	}
}

// UpsertLocation records a driver's fix. A missing timestamp is filled
// with the server clock so a bare update still participates in the
// last-write-wins ordering.
func (uc *LocationUC) UpsertLocation(ctx context.Context, entry models.DriverLocationEntry) error {
	if !entry.Location.Valid() {
		return location.ErrInvalidCoordinates
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		return uc.locationRepo.UpsertLocation(ctx, entry)
	})
	if err != nil {
		return err
	}

	logger.Debug("Driver location updated",
		logger.String("driver_id", entry.DriverID),
		logger.Float64("latitude", entry.Location.Latitude),
		logger.Float64("longitude", entry.Location.Longitude))

	return nil
}

// QueryNearby returns the drivers within radiusMeters of center.
func (uc *LocationUC) QueryNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]models.NearbyDriver, error) {
	if !center.Valid() {
		return nil, location.ErrInvalidCoordinates
	}
	if radiusMeters <= 0 {
		return nil, location.ErrInvalidRadius
	}

	var drivers []models.NearbyDriver
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		var repoErr error
		drivers, repoErr = uc.locationRepo.QueryNearby(ctx, center, radiusMeters)
		return repoErr
	})
	if err != nil {
		return nil, err
	}

	return drivers, nil
}
