package constants

// Redis key formats
const (
	// KeyDriverGeo is the GEO set holding all driver positions.
	KeyDriverGeo = "drivers:geo"

	// KeyDriverLocation is the per-driver hash with the raw fix.
	// Format: driver:location:{driver_id}
	KeyDriverLocation = "driver:location:%s"
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldGeohash   = "geohash"
	FieldTimestamp = "ts"
)
