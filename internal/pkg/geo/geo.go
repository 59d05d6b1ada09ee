// Package geo evaluates whether a device position lies inside the worksite geofence.
package geo

import (
	"errors"
	"math"
)

const earthRadiusMeters = 6371000

const (
	DefaultLatitude     = 21.8704003
	DefaultLongitude    = 73.5024621
	DefaultRadiusMeters = 100.0
)

var ErrInvalidCoordinates = errors.New("coordinates out of range")

// Proximity is a coarse band used by clients to colour the distance readout.
type Proximity string

const (
	ProximityNear    Proximity = "near"
	ProximityEdge    Proximity = "edge"
	ProximityOutside Proximity = "outside"
)

// Fence is a circular area around a fixed point.
type Fence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type Evaluation struct {
	Within         bool
	DistanceMeters float64
	Proximity      Proximity
}

func DefaultFence() Fence {
	return Fence{
		Latitude:     DefaultLatitude,
		Longitude:    DefaultLongitude,
		RadiusMeters: DefaultRadiusMeters,
	}
}

// Evaluate measures the device position against the fence. The boundary counts as inside.
func (f Fence) Evaluate(lat, lng float64) (Evaluation, error) {
	if !ValidCoordinates(lat, lng) {
		return Evaluation{}, ErrInvalidCoordinates
	}

	distance := Distance(lat, lng, f.Latitude, f.Longitude)
	eval := Evaluation{
		Within:         distance <= f.RadiusMeters,
		DistanceMeters: distance,
	}

	switch {
	case distance <= f.RadiusMeters/2:
		eval.Proximity = ProximityNear
	case eval.Within:
		eval.Proximity = ProximityEdge
	default:
		eval.Proximity = ProximityOutside
	}
	return eval, nil
}

func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Distance returns the great-circle distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
