// Package geo provides great-circle math for the radius filter.
package geo

import (
	"math"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// EarthRadiusKm is the mean sphere radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between a and b in kilometers.
// It is symmetric and returns ~0 for identical points. Latitudes must be in
// [-90, 90] and longitudes in [-180, 180]; out-of-range input is the caller's
// responsibility and is not validated here.
func DistanceKm(a, b model.Coordinate) float64 {
	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
