// File: internal/geo/haversine.go
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula. The intermediate value is clamped to [0, 1]
// so equal and antipodal points cannot produce NaN from floating-point
// overshoot.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	if h < 0 {
		h = 0
	}
	if h > 1 {
		h = 1
	}
	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
