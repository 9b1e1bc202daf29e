package geofence

import "math"

// earthRadiusMeters is the mean Earth radius used by the great-circle
// formula.
const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two
// coordinates. Symmetric, and zero for identical points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMeters * c
}
