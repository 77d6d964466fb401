package models

import "time"

// Coordinate is a point on the globe.
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Valid reports whether the coordinate is within the usual WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DriverLocationEntry is the last known position reported by a driver's
// device. Entries are upserted last-write-wins by UpdatedAt; an update
// carrying an older timestamp than the stored fix is ignored.
type DriverLocationEntry struct {
	DriverID  string     `json:"driver_id"`
	Location  Coordinate `json:"location"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NearbyDriver is a location entry annotated with its distance from the
// center of a radius query, in meters.
type NearbyDriver struct {
	DriverLocationEntry
	DistanceMeters float64 `json:"distance_meters"`
}
