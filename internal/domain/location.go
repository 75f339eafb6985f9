package domain

import (
	"math"
	"strings"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Location is a validated geographic point with a street address.
type Location struct {
	latitude  float64
	longitude float64
	address   string
}

// NewLocation validates coordinate ranges and a non-empty address.
func NewLocation(latitude, longitude float64, address string) (Location, error) {
	if latitude < -90 || latitude > 90 {
		return Location{}, ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return Location{}, ErrInvalidLongitude
	}
	if strings.TrimSpace(address) == "" {
		return Location{}, requiredField("Location", "address")
	}
	return Location{latitude: latitude, longitude: longitude, address: address}, nil
}

// MustLocation panics on invalid input. For tests and literals only.
func MustLocation(latitude, longitude float64, address string) Location {
	l, err := NewLocation(latitude, longitude, address)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Location) Latitude() float64  { return l.latitude }
func (l Location) Longitude() float64 { return l.longitude }
func (l Location) Address() string    { return l.address }

// DistanceTo returns the great-circle distance in kilometers using the
// haversine formula.
func (l Location) DistanceTo(other Location) float64 {
	lat1 := toRadians(l.latitude)
	lat2 := toRadians(other.latitude)
	dlat := toRadians(other.latitude - l.latitude)
	dlon := toRadians(other.longitude - l.longitude)

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
