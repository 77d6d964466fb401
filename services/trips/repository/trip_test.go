package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/trips"
	"github.com/openride/dispatch/services/trips/repository"
	"github.com/stretchr/testify/assert"
)

var tripCols = []string{
	"passenger_id", "driver_id",
	"pickup_latitude", "pickup_longitude",
	"destination_latitude", "destination_longitude",
	"state", "requested_at", "accepted_at", "started_at", "completed_at",
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	return db, mock
}

func requestedTrip(passengerID string) *models.Trip {
	return &models.Trip{
		PassengerID: passengerID,
		Pickup:      models.Coordinate{Latitude: 37.78, Longitude: -122.41},
		Destination: models.Coordinate{Latitude: 37.80, Longitude: -122.40},
		State:       models.TripStateRequested,
		RequestedAt: time.Now(),
	}
}

func TestCreateTrip_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	trip := requestedTrip("passenger-1")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WithArgs(
			trip.PassengerID,
			trip.Pickup.Latitude, trip.Pickup.Longitude,
			trip.Destination.Latitude, trip.Destination.Longitude,
			trip.State, trip.RequestedAt,
			models.TripStateCompleted,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateTrip(context.Background(), trip)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTrip_AlreadyActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	trip := requestedTrip("passenger-1")

	// Zero rows affected: the existing row was not COMPLETED.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateTrip(context.Background(), trip)
	assert.ErrorIs(t, err, trips.ErrAlreadyActive)
}

func TestCreateTrip_StoreUnavailable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WillReturnError(assert.AnError)

	err := repo.CreateTrip(context.Background(), requestedTrip("passenger-1"))
	assert.ErrorIs(t, err, database.ErrStoreUnavailable)
}

func TestGetTrip_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	requestedAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("passenger-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", nil,
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateRequested), requestedAt, nil, nil, nil,
		))

	trip, err := repo.GetTrip(context.Background(), "passenger-1")
	assert.NoError(t, err)
	assert.Equal(t, "passenger-1", trip.PassengerID)
	assert.Nil(t, trip.DriverID)
	assert.Equal(t, models.TripStateRequested, trip.State)
}

func TestGetTrip_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	trip, err := repo.GetTrip(context.Background(), "nobody")
	assert.ErrorIs(t, err, trips.ErrTripNotFound)
	assert.Nil(t, trip)
}

func TestAcceptTrip_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	acceptedAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WithArgs("passenger-1", "driver-1", models.TripStateAccepted, acceptedAt, models.TripStateRequested).
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", "driver-1",
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateAccepted), time.Now(), acceptedAt, nil, nil,
		))

	trip, err := repo.AcceptTrip(context.Background(), "passenger-1", "driver-1", acceptedAt)
	assert.NoError(t, err)
	assert.Equal(t, models.TripStateAccepted, trip.State)
	assert.NotNil(t, trip.DriverID)
	assert.Equal(t, "driver-1", *trip.DriverID)
}

func TestAcceptTrip_LostRace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	// CAS matches no rows, the follow-up read shows another driver won.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("passenger-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", "driver-2",
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateAccepted), time.Now(), time.Now(), nil, nil,
		))

	trip, err := repo.AcceptTrip(context.Background(), "passenger-1", "driver-1", time.Now())
	assert.ErrorIs(t, err, trips.ErrAlreadyAccepted)
	assert.Nil(t, trip)
}

func TestAcceptTrip_AlreadyCompleted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("passenger-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", "driver-2",
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateCompleted), time.Now(), time.Now(), time.Now(), time.Now(),
		))

	_, err := repo.AcceptTrip(context.Background(), "passenger-1", "driver-1", time.Now())
	assert.ErrorIs(t, err, trips.ErrTripAlreadyCompleted)
}

func TestAcceptTrip_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("passenger-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.AcceptTrip(context.Background(), "passenger-1", "driver-1", time.Now())
	assert.ErrorIs(t, err, trips.ErrTripNotFound)
}

func TestAdvanceState_StartTrip(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	startedAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WithArgs("passenger-1", "driver-1", models.TripStateAccepted, models.TripStateInProgress, startedAt).
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", "driver-1",
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateInProgress), time.Now(), time.Now(), startedAt, nil,
		))

	trip, err := repo.AdvanceState(context.Background(), "passenger-1", "driver-1",
		models.TripStateAccepted, models.TripStateInProgress, startedAt)
	assert.NoError(t, err)
	assert.Equal(t, models.TripStateInProgress, trip.State)
	assert.NotNil(t, trip.StartedAt)
}

func TestAdvanceState_OutOfOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	// Trying to start a trip that is still REQUESTED.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("passenger-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", nil,
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateRequested), time.Now(), nil, nil, nil,
		))

	_, err := repo.AdvanceState(context.Background(), "passenger-1", "driver-1",
		models.TripStateAccepted, models.TripStateInProgress, time.Now())
	assert.ErrorIs(t, err, trips.ErrInvalidTransition)
}

func TestAdvanceState_DoubleComplete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE trips")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("passenger-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"passenger-1", "driver-1",
			37.78, -122.41,
			37.80, -122.40,
			string(models.TripStateCompleted), time.Now(), time.Now(), time.Now(), time.Now(),
		))

	_, err := repo.AdvanceState(context.Background(), "passenger-1", "driver-1",
		models.TripStateInProgress, models.TripStateCompleted, time.Now())
	assert.ErrorIs(t, err, trips.ErrTripAlreadyCompleted)
}

func TestAdvanceState_BackwardRejected(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := repository.NewTripRepository(db)

	// REQUESTED is never a valid target; rejected before touching the store.
	_, err := repo.AdvanceState(context.Background(), "passenger-1", "driver-1",
		models.TripStateAccepted, models.TripStateRequested, time.Now())
	assert.ErrorIs(t, err, trips.ErrInvalidTransition)
}
