package domain

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine distance.
const EarthRadiusMeters = 6371000.0

// Coordinate represents a geographic point in decimal degrees (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Validate reports whether c is a finite point inside the lat/lng domain.
func (c Coordinate) Validate() error {
	if !finite(c.Lat) || !finite(c.Lng) {
		return fmt.Errorf("%w: coordinate must be finite", ErrMalformedInput)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrMalformedInput)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrMalformedInput)
	}
	return nil
}

// Distance returns the great-circle distance in meters between a and b using
// the haversine formula. Inputs are not validated; NaN or infinite components
// produce NaN.
func Distance(a, b Coordinate) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lng - a.Lng)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
