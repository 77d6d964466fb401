package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/trips"
)

const tripColumns = `
	passenger_id, driver_id,
	pickup_latitude, pickup_longitude,
	destination_latitude, destination_longitude,
	state, requested_at, accepted_at, started_at, completed_at`

// TripRepo is the Postgres-backed trip store. The passenger id is the
// primary key of the trips table, which is what enforces the
// one-active-trip-per-passenger invariant; every state change is a
// conditional UPDATE so the compare-and-set happens inside the store.
type TripRepo struct {
	db *sqlx.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sqlx.DB) *TripRepo {
	return &TripRepo{db: db}
}

// CreateTrip inserts a new REQUESTED trip for the passenger. A row left
// behind by a COMPLETED trip is overwritten in the same statement; a
// live row makes the insert a no-op and the call fails with
// ErrAlreadyActive.
func (r *TripRepo) CreateTrip(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			passenger_id,
			pickup_latitude, pickup_longitude,
			destination_latitude, destination_longitude,
			state, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (passenger_id) DO UPDATE SET
			driver_id = NULL,
			pickup_latitude = EXCLUDED.pickup_latitude,
			pickup_longitude = EXCLUDED.pickup_longitude,
			destination_latitude = EXCLUDED.destination_latitude,
			destination_longitude = EXCLUDED.destination_longitude,
			state = EXCLUDED.state,
			requested_at = EXCLUDED.requested_at,
			accepted_at = NULL,
			started_at = NULL,
			completed_at = NULL
		WHERE trips.state = $8
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		trip.PassengerID,
		trip.Pickup.Latitude,
		trip.Pickup.Longitude,
		trip.Destination.Latitude,
		trip.Destination.Longitude,
		trip.State,
		trip.RequestedAt,
		models.TripStateCompleted,
	)
	if err != nil {
		return storeError("create trip", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("create trip", err)
	}
	if rows == 0 {
		return trips.ErrAlreadyActive
	}

	return nil
}

// GetTrip retrieves the passenger's trip
func (r *TripRepo) GetTrip(ctx context.Context, passengerID string) (*models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE passenger_id = $1`, tripColumns)

	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, passengerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trips.ErrTripNotFound
		}
		return nil, storeError("get trip", err)
	}

	return trip, nil
}

// AcceptTrip performs the accept compare-and-set: the UPDATE only
// matches while the trip is REQUESTED and unassigned, so under N
// concurrent accepts the store lets exactly one through.
func (r *TripRepo) AcceptTrip(ctx context.Context, passengerID, driverID string, acceptedAt time.Time) (*models.Trip, error) {
	query := fmt.Sprintf(`
		UPDATE trips
		SET driver_id = $2, state = $3, accepted_at = $4
		WHERE passenger_id = $1 AND state = $5 AND driver_id IS NULL
		RETURNING %s`, tripColumns)

	trip, err := scanTrip(r.db.QueryRowContext(
		ctx, query,
		passengerID, driverID, models.TripStateAccepted, acceptedAt, models.TripStateRequested,
	))
	if err == nil {
		return trip, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeError("accept trip", err)
	}

	// CAS failed: read the row to report why.
	current, getErr := r.GetTrip(ctx, passengerID)
	if getErr != nil {
		return nil, getErr
	}
	if current.State.Terminal() {
		return nil, trips.ErrTripAlreadyCompleted
	}
	return nil, trips.ErrAlreadyAccepted
}

// AdvanceState moves the trip one state forward, restricted to the
// assigned driver.
func (r *TripRepo) AdvanceState(ctx context.Context, passengerID, driverID string, from, to models.TripState, at time.Time) (*models.Trip, error) {
	var tsColumn string
	switch to {
	case models.TripStateInProgress:
		tsColumn = "started_at"
	case models.TripStateCompleted:
		tsColumn = "completed_at"
	default:
		return nil, trips.ErrInvalidTransition
	}

	query := fmt.Sprintf(`
		UPDATE trips
		SET state = $4, %s = $5
		WHERE passenger_id = $1 AND driver_id = $2 AND state = $3
		RETURNING %s`, tsColumn, tripColumns)

	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, passengerID, driverID, from, to, at))
	if err == nil {
		return trip, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeError("advance trip state", err)
	}

	current, getErr := r.GetTrip(ctx, passengerID)
	if getErr != nil {
		return nil, getErr
	}
	if current.State.Terminal() {
		return nil, trips.ErrTripAlreadyCompleted
	}
	return nil, trips.ErrInvalidTransition
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrip(row rowScanner) (*models.Trip, error) {
	trip := &models.Trip{}
	var driverID sql.NullString
	var acceptedAt, startedAt, completedAt sql.NullTime

	err := row.Scan(
		&trip.PassengerID,
		&driverID,
		&trip.Pickup.Latitude,
		&trip.Pickup.Longitude,
		&trip.Destination.Latitude,
		&trip.Destination.Longitude,
		&trip.State,
		&trip.RequestedAt,
		&acceptedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		trip.DriverID = &driverID.String
	}
	if acceptedAt.Valid {
		trip.AcceptedAt = &acceptedAt.Time
	}
	if startedAt.Valid {
		trip.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		trip.CompletedAt = &completedAt.Time
	}

	return trip, nil
}

// storeError wraps driver-level failures so callers can classify them
// as retryable, keeping business-rule errors out of the retry path.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, database.ErrStoreUnavailable, err)
}
