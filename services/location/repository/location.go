package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/openride/dispatch/internal/pkg/constants"
	"github.com/openride/dispatch/internal/pkg/database"
	"github.com/openride/dispatch/internal/pkg/models"
	"github.com/openride/dispatch/internal/utils"
)

// geohashPrecision yields cells of roughly 5 m, enough to make the
// stored hash useful for coarse proximity grouping.
const geohashPrecision = 9

// LocationRepo is the Redis-backed driver location feed: a GEO set for
// radius queries plus a per-driver hash carrying the raw fix and its
// timestamp. The hash timestamp is what makes upserts last-write-wins.
type LocationRepo struct {
	redisClient *database.RedisClient
	// entryTTL is the staleness knob. Zero keeps entries until they
	// are overwritten.
	entryTTL time.Duration
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(redisClient *database.RedisClient, entryTTL time.Duration) *LocationRepo {
	return &LocationRepo{
		redisClient: redisClient,
		entryTTL:    entryTTL,
	}
}

// UpsertLocation stores a driver's fix. An update carrying a timestamp
// older than the stored one is dropped; replaying the same fix is a
// no-op beyond rewriting identical values.
func (r *LocationRepo) UpsertLocation(ctx context.Context, entry models.DriverLocationEntry) error {
	stored, err := r.GetLocation(ctx, entry.DriverID)
	if err != nil {
		return err
	}
	if stored != nil && stored.UpdatedAt.After(entry.UpdatedAt) {
		return nil
	}

	hashKey := fmt.Sprintf(constants.KeyDriverLocation, entry.DriverID)
	fields := map[string]interface{}{
		constants.FieldLatitude:  strconv.FormatFloat(entry.Location.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(entry.Location.Longitude, 'f', -1, 64),
		constants.FieldGeohash:   utils.EncodeCoordinate(entry.Location, geohashPrecision),
		constants.FieldTimestamp: strconv.FormatInt(entry.UpdatedAt.Unix(), 10),
	}

	if err := r.redisClient.HSet(ctx, hashKey, fields); err != nil {
		return storeError("store driver location", err)
	}

	if err := r.redisClient.GeoAdd(ctx, constants.KeyDriverGeo,
		entry.Location.Longitude, entry.Location.Latitude, entry.DriverID); err != nil {
		return storeError("index driver location", err)
	}

	if r.entryTTL > 0 {
		if err := r.redisClient.Expire(ctx, hashKey, r.entryTTL); err != nil {
			return storeError("set location TTL", err)
		}
	}

	return nil
}

// GetLocation returns the stored fix for a driver, nil when none exists.
func (r *LocationRepo) GetLocation(ctx context.Context, driverID string) (*models.DriverLocationEntry, error) {
	hashKey := fmt.Sprintf(constants.KeyDriverLocation, driverID)

	values, err := r.redisClient.HMGet(ctx, hashKey,
		constants.FieldLatitude, constants.FieldLongitude, constants.FieldTimestamp)
	if err != nil {
		return nil, storeError("get driver location", err)
	}
	if len(values) != 3 || values[0] == nil || values[1] == nil || values[2] == nil {
		return nil, nil
	}

	lat, err := parseFloatField(values[0])
	if err != nil {
		return nil, fmt.Errorf("invalid latitude for driver %s: %w", driverID, err)
	}
	lng, err := parseFloatField(values[1])
	if err != nil {
		return nil, fmt.Errorf("invalid longitude for driver %s: %w", driverID, err)
	}
	ts, err := parseIntField(values[2])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp for driver %s: %w", driverID, err)
	}

	return &models.DriverLocationEntry{
		DriverID:  driverID,
		Location:  models.Coordinate{Latitude: lat, Longitude: lng},
		UpdatedAt: time.Unix(ts, 0),
	}, nil
}

// QueryNearby returns all indexed drivers within radiusMeters of
// center. Entries whose hash has expired are dropped from the result
// and removed from the GEO set.
func (r *LocationRepo) QueryNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]models.NearbyDriver, error) {
	locations, err := r.redisClient.GeoRadius(ctx, constants.KeyDriverGeo,
		center.Longitude, center.Latitude, radiusMeters, "m")
	if err != nil {
		return nil, storeError("query nearby drivers", err)
	}

	results := make([]models.NearbyDriver, 0, len(locations))
	for _, loc := range locations {
		entry, err := r.GetLocation(ctx, loc.Name)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			// Fix expired; the GEO member is a leftover.
			if err := r.redisClient.ZRem(ctx, constants.KeyDriverGeo, loc.Name); err != nil {
				return nil, storeError("remove stale geo member", err)
			}
			continue
		}

		results = append(results, models.NearbyDriver{
			DriverLocationEntry: *entry,
			DistanceMeters:      loc.Dist,
		})
	}

	return results, nil
}

func parseFloatField(v interface{}) (float64, error) {
	return strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
}

func parseIntField(v interface{}) (int64, error) {
	return strconv.ParseInt(fmt.Sprintf("%v", v), 10, 64)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, database.ErrStoreUnavailable, err)
}
