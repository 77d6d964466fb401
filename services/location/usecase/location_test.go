package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/services/location"
	"github.com/openride/dispatch/services/location/mocks"
)

func testConfig() *models.Config {
	return &models.Config{
		Retry: models.RetryConfig{
			MaxRetries:  2,
			BaseDelayMs: 1,
			MaxDelayMs:  2,
		},
	}
}

func TestUpsertLocation_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	entry := models.DriverLocationEntry{
		DriverID:  "driver-1",
		Location:  models.Coordinate{Latitude: -6.1753, Longitude: 106.8271},
		UpdatedAt: time.Now(),
	}
	mockRepo.EXPECT().UpsertLocation(gomock.Any(), entry).Return(nil)

	err := uc.UpsertLocation(context.Background(), entry)
	assert.NoError(t, err)
}

func TestUpsertLocation_InvalidCoordinates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	err := uc.UpsertLocation(context.Background(), models.DriverLocationEntry{
		DriverID:  "driver-1",
		Location:  models.Coordinate{Latitude: 91.0, Longitude: 0},
		UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, location.ErrInvalidCoordinates)
}

func TestUpsertLocation_FillsMissingTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	before := time.Now()
	mockRepo.EXPECT().
		UpsertLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.DriverLocationEntry) error {
			assert.False(t, entry.UpdatedAt.IsZero())
			assert.False(t, entry.UpdatedAt.Before(before))
			return nil
		})

	err := uc.UpsertLocation(context.Background(), models.DriverLocationEntry{
		DriverID: "driver-1",
		Location: models.Coordinate{Latitude: 1, Longitude: 1},
	})
	assert.NoError(t, err)
}

func TestUpsertLocation_RetriesWhenStoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	entry := models.DriverLocationEntry{
		DriverID:  "driver-1",
		Location:  models.Coordinate{Latitude: 1, Longitude: 1},
		UpdatedAt: time.Now(),
	}
	gomock.InOrder(
		mockRepo.EXPECT().UpsertLocation(gomock.Any(), entry).Return(database.ErrStoreUnavailable),
		mockRepo.EXPECT().UpsertLocation(gomock.Any(), entry).Return(nil),
	)

	err := uc.UpsertLocation(context.Background(), entry)
	assert.NoError(t, err)
}

func TestQueryNearby_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	center := models.Coordinate{Latitude: -6.1753, Longitude: 106.8271}
	expected := []models.NearbyDriver{
		{
			DriverLocationEntry: models.DriverLocationEntry{
				DriverID:  "driver-1",
				Location:  models.Coordinate{Latitude: -6.1760, Longitude: 106.8280},
				UpdatedAt: time.Now(),
			},
			DistanceMeters: 120.5,
		},
	}
	mockRepo.EXPECT().QueryNearby(gomock.Any(), center, 500.0).Return(expected, nil)

	drivers, err := uc.QueryNearby(context.Background(), center, 500)
	require.NoError(t, err)
	assert.Equal(t, expected, drivers)
}

func TestQueryNearby_InvalidRadius(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	_, err := uc.QueryNearby(context.Background(), models.Coordinate{Latitude: 1, Longitude: 1}, 0)
	assert.ErrorIs(t, err, location.ErrInvalidRadius)
}

func TestQueryNearby_InvalidCenter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLocationRepo(ctrl)
	uc := NewLocationUC(testConfig(), mockRepo)

	_, err := uc.QueryNearby(context.Background(), models.Coordinate{Latitude: -120, Longitude: 1}, 500)
	assert.ErrorIs(t, err, location.ErrInvalidCoordinates)
}
