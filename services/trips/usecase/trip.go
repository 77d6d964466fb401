package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/logger"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/pkg/retry"
	"github.com/openride/dispatch/services/trips"
)

// TripUC implements the trip lifecycle state machine. All store writes
// go through the retrier; only transport failures are retried, a
// business-rule failure is the answer and comes straight back.
type TripUC struct {
	cfg      *models.Config
	tripRepo trips.TripRepo
	tripGW   trips.TripGW
	retrier  *retry.Retrier
}

// NewTripUC creates a new trip usecase
func NewTripUC(cfg *models.Config, tripRepo trips.TripRepo, tripGW trips.TripGW) *TripUC {
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

	return &TripUC{
		cfg:      cfg,
		tripRepo: tripRepo,
		tripGW:   tripGW,
		retrier:  retry.New(retryCfg),
	}
}

// RequestTrip creates a REQUESTED trip for the passenger and fans it
// out to subscribed drivers.
func (uc *TripUC) RequestTrip(ctx context.Context, passengerID string, pickup, destination models.Coordinate) (*models.Trip, error) {
	if !pickup.Valid() || !destination.Valid() {
		return nil, trips.ErrInvalidCoordinates
	}

	trip := &models.Trip{
		PassengerID: passengerID,
		Pickup:      pickup,
		Destination: destination,
		State:       models.TripStateRequested,
		RequestedAt: time.Now(),
	}

	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		return uc.tripRepo.CreateTrip(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.tripGW.PublishTripRequested(ctx, trip); err != nil {
		// The trip is committed; a failed fan-out must not undo it.
		logger.Error("Failed to publish trip requested event",
			logger.String("passenger_id", passengerID),
			logger.Err(err))
	}

	logger.Info("Trip requested",
		logger.String("passenger_id", passengerID),
		logger.Float64("pickup_lat", pickup.Latitude),
		logger.Float64("pickup_lng", pickup.Longitude))

	return trip, nil
}

// GetTrip returns the passenger's trip
func (uc *TripUC) GetTrip(ctx context.Context, passengerID string) (*models.Trip, error) {
	var trip *models.Trip
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		var repoErr error
		trip, repoErr = uc.tripRepo.GetTrip(ctx, passengerID)
		return repoErr
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// AcceptTrip performs the accept compare-and-set. Exactly one of N
// concurrent callers wins; the rest get ErrAlreadyAccepted.
func (uc *TripUC) AcceptTrip(ctx context.Context, passengerID, driverID string) (*models.Trip, error) {
	var trip *models.Trip
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		var repoErr error
		trip, repoErr = uc.tripRepo.AcceptTrip(ctx, passengerID, driverID, time.Now())
		return repoErr
	})
	if err != nil {
		return nil, err
	}

	uc.publishUpdate(ctx, trip)

	logger.Info("Trip accepted",
		logger.String("passenger_id", passengerID),
		logger.String("driver_id", driverID))

	return trip, nil
}

// StartTrip moves the trip from ACCEPTED to IN_PROGRESS.
func (uc *TripUC) StartTrip(ctx context.Context, passengerID, driverID string) (*models.Trip, error) {
	return uc.advance(ctx, passengerID, driverID, models.TripStateAccepted, models.TripStateInProgress)
}

// CompleteTrip moves the trip from IN_PROGRESS to its terminal state.
func (uc *TripUC) CompleteTrip(ctx context.Context, passengerID, driverID string) (*models.Trip, error) {
	return uc.advance(ctx, passengerID, driverID, models.TripStateInProgress, models.TripStateCompleted)
}

func (uc *TripUC) advance(ctx context.Context, passengerID, driverID string, from, to models.TripState) (*models.Trip, error) {
	var trip *models.Trip
	err := uc.retrier.Execute(ctx, func(ctx context.Context) error {
		var repoErr error
		trip, repoErr = uc.tripRepo.AdvanceState(ctx, passengerID, driverID, from, to, time.Now())
		return repoErr
	})
	if err != nil {
		return nil, err
	}

	uc.publishUpdate(ctx, trip)

	logger.Info("Trip state advanced",
		logger.String("passenger_id", passengerID),
		logger.String("driver_id", driverID),
		logger.String("state", string(to)))

	return trip, nil
}

func (uc *TripUC) publishUpdate(ctx context.Context, trip *models.Trip) {
	if err := uc.tripGW.PublishTripUpdated(ctx, trip); err != nil {
		logger.Error("Failed to publish trip update",
			logger.String("passenger_id", trip.PassengerID),
			logger.String("state", string(trip.State)),
			logger.Err(err))
	}
}
