package usecase

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/trips"
	"github.com/openride/dispatch/services/trips/mocks"
	"github.com/stretchr/testify/assert"
)

func testConfig() *models.Config {
	return &models.Config{
		Retry: models.RetryConfig{MaxRetries: 2, BaseDelayMs: 1, MaxDelayMs: 2},
	}
}

var (
	pickup      = models.Coordinate{Latitude: 37.78, Longitude: -122.41}
	destination = models.Coordinate{Latitude: 37.80, Longitude: -122.40}
)

func TestRequestTrip_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	mockGW := mocks.NewMockTripGW(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mockGW)

	mockRepo.EXPECT().
		CreateTrip(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, trip *models.Trip) error {
			assert.Equal(t, "passenger-1", trip.PassengerID)
			assert.Equal(t, models.TripStateRequested, trip.State)
			assert.Nil(t, trip.DriverID)
			return nil
		})

	mockGW.EXPECT().
		PublishTripRequested(gomock.Any(), gomock.Any()).
		Return(nil)

	trip, err := uc.RequestTrip(context.Background(), "passenger-1", pickup, destination)
	assert.NoError(t, err)
	assert.Equal(t, models.TripStateRequested, trip.State)
	assert.False(t, trip.RequestedAt.IsZero())
}

func TestRequestTrip_InvalidCoordinates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := NewTripUC(testConfig(), mocks.NewMockTripRepo(ctrl), mocks.NewMockTripGW(ctrl))

	_, err := uc.RequestTrip(context.Background(), "passenger-1",
		models.Coordinate{Latitude: 91.0, Longitude: 0}, destination)
	assert.ErrorIs(t, err, trips.ErrInvalidCoordinates)
}

func TestRequestTrip_AlreadyActiveNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mocks.NewMockTripGW(ctrl))

	// Business-rule failure: exactly one attempt, no retry.
	mockRepo.EXPECT().
		CreateTrip(gomock.Any(), gomock.Any()).
		Return(trips.ErrAlreadyActive).
		Times(1)

	_, err := uc.RequestTrip(context.Background(), "passenger-1", pickup, destination)
	assert.ErrorIs(t, err, trips.ErrAlreadyActive)
}

func TestRequestTrip_StoreUnavailableRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	mockGW := mocks.NewMockTripGW(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mockGW)

	gomock.InOrder(
		mockRepo.EXPECT().CreateTrip(gomock.Any(), gomock.Any()).Return(database.ErrStoreUnavailable),
		mockRepo.EXPECT().CreateTrip(gomock.Any(), gomock.Any()).Return(nil),
	)
	mockGW.EXPECT().PublishTripRequested(gomock.Any(), gomock.Any()).Return(nil)

	trip, err := uc.RequestTrip(context.Background(), "passenger-1", pickup, destination)
	assert.NoError(t, err)
	assert.NotNil(t, trip)
}

func TestRequestTrip_PublishFailureDoesNotFailRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	mockGW := mocks.NewMockTripGW(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mockGW)

	mockRepo.EXPECT().CreateTrip(gomock.Any(), gomock.Any()).Return(nil)
	mockGW.EXPECT().PublishTripRequested(gomock.Any(), gomock.Any()).Return(assert.AnError)

	trip, err := uc.RequestTrip(context.Background(), "passenger-1", pickup, destination)
	assert.NoError(t, err)
	assert.NotNil(t, trip)
}

func TestAcceptTrip_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	mockGW := mocks.NewMockTripGW(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mockGW)

	driverID := "driver-1"
	accepted := &models.Trip{
		PassengerID: "passenger-1",
		DriverID:    &driverID,
		State:       models.TripStateAccepted,
	}

	mockRepo.EXPECT().
		AcceptTrip(gomock.Any(), "passenger-1", "driver-1", gomock.Any()).
		Return(accepted, nil)
	mockGW.EXPECT().
		PublishTripUpdated(gomock.Any(), accepted).
		Return(nil)

	trip, err := uc.AcceptTrip(context.Background(), "passenger-1", "driver-1")
	assert.NoError(t, err)
	assert.Equal(t, models.TripStateAccepted, trip.State)
}

func TestAcceptTrip_LostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mocks.NewMockTripGW(ctrl))

	mockRepo.EXPECT().
		AcceptTrip(gomock.Any(), "passenger-1", "driver-2", gomock.Any()).
		Return(nil, trips.ErrAlreadyAccepted).
		Times(1)

	_, err := uc.AcceptTrip(context.Background(), "passenger-1", "driver-2")
	assert.ErrorIs(t, err, trips.ErrAlreadyAccepted)
}

func TestStartTrip_UsesAcceptedPrecondition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	mockGW := mocks.NewMockTripGW(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mockGW)

	driverID := "driver-1"
	started := &models.Trip{
		PassengerID: "passenger-1",
		DriverID:    &driverID,
		State:       models.TripStateInProgress,
	}

	mockRepo.EXPECT().
		AdvanceState(gomock.Any(), "passenger-1", "driver-1",
			models.TripStateAccepted, models.TripStateInProgress, gomock.Any()).
		Return(started, nil)
	mockGW.EXPECT().PublishTripUpdated(gomock.Any(), started).Return(nil)

	trip, err := uc.StartTrip(context.Background(), "passenger-1", "driver-1")
	assert.NoError(t, err)
	assert.Equal(t, models.TripStateInProgress, trip.State)
}

func TestCompleteTrip_UsesInProgressPrecondition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	mockGW := mocks.NewMockTripGW(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mockGW)

	driverID := "driver-1"
	completed := &models.Trip{
		PassengerID: "passenger-1",
		DriverID:    &driverID,
		State:       models.TripStateCompleted,
	}

	mockRepo.EXPECT().
		AdvanceState(gomock.Any(), "passenger-1", "driver-1",
			models.TripStateInProgress, models.TripStateCompleted, gomock.Any()).
		Return(completed, nil)
	mockGW.EXPECT().PublishTripUpdated(gomock.Any(), completed).Return(nil)

	trip, err := uc.CompleteTrip(context.Background(), "passenger-1", "driver-1")
	assert.NoError(t, err)
	assert.Equal(t, models.TripStateCompleted, trip.State)
}

func TestCompleteTrip_AlreadyCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTripRepo(ctrl)
	uc := NewTripUC(testConfig(), mockRepo, mocks.NewMockTripGW(ctrl))

	mockRepo.EXPECT().
		AdvanceState(gomock.Any(), "passenger-1", "driver-1",
			models.TripStateInProgress, models.TripStateCompleted, gomock.Any()).
		Return(nil, trips.ErrTripAlreadyCompleted).
		Times(1)

	_, err := uc.CompleteTrip(context.Background(), "passenger-1", "driver-1")
	assert.ErrorIs(t, err, trips.ErrTripAlreadyCompleted)
}
