package utils

import (
	"testing"

	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_SamePoint(t *testing.T) {
	p := models.Coordinate{Latitude: 37.78, Longitude: -122.41}
	assert.Equal(t, 0.0, HaversineDistance(p, p))
}

func TestHaversineDistance_KnownDistance(t *testing.T) {
	// Ferry Building to Coit Tower, roughly 1.1km apart
	p1 := models.Coordinate{Latitude: 37.7955, Longitude: -122.3937}
	p2 := models.Coordinate{Latitude: 37.8024, Longitude: -122.4058}

	d := HaversineDistance(p1, p2)
	assert.InDelta(t, 1300, d, 200)
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	p1 := models.Coordinate{Latitude: 1.0, Longitude: 1.0}
	p2 := models.Coordinate{Latitude: 2.0, Longitude: 2.0}

	assert.InDelta(t, HaversineDistance(p1, p2), HaversineDistance(p2, p1), 1e-9)
}

func TestEncodeDecodeGeohash(t *testing.T) {
	coord := models.Coordinate{Latitude: -6.175392, Longitude: 106.827153}

	hash := EncodeCoordinate(coord, 9)
	assert.Len(t, hash, 9)

	decoded := DecodeGeohash(hash)
	assert.InDelta(t, coord.Latitude, decoded.Latitude, 0.001)
	assert.InDelta(t, coord.Longitude, decoded.Longitude, 0.001)
}

func TestGeohashNeighbors(t *testing.T) {
	hash := EncodeCoordinate(models.Coordinate{Latitude: -6.1753, Longitude: 106.8271}, 6)
	neighbors := GeohashNeighbors(hash)
	assert.Len(t, neighbors, 8)
}
