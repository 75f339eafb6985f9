package domain

import (
	"fmt"
	"strings"
)

// LicensePlate identifies a vehicle within a registration region. Uniqueness
// of the (value, region) pair is enforced at the repository level.
type LicensePlate struct {
	value  string
	region string
}

func NewLicensePlate(value, region string) (LicensePlate, error) {
	if strings.TrimSpace(value) == "" {
		return LicensePlate{}, ErrEmptyPlateValue
	}
	if strings.TrimSpace(region) == "" {
		return LicensePlate{}, ErrEmptyPlateRegion
	}
	return LicensePlate{value: value, region: region}, nil
}

// MustLicensePlate panics on invalid input. For tests and literals only.
func MustLicensePlate(value, region string) LicensePlate {
	p, err := NewLicensePlate(value, region)
	if err != nil {
		panic(err)
	}
	return p
}

func (p LicensePlate) Value() string  { return p.value }
func (p LicensePlate) Region() string { return p.region }
func (p LicensePlate) IsZero() bool   { return p.value == "" && p.region == "" }

// Formatted renders the plate for display, region first.
func (p LicensePlate) Formatted() string {
	return fmt.Sprintf("[%s] %s", p.region, p.value)
}

// FacilityName is a non-empty display name for a facility.
type FacilityName struct {
	value string
}

func NewFacilityName(value string) (FacilityName, error) {
	if strings.TrimSpace(value) == "" {
		return FacilityName{}, ErrEmptyFacilityName
	}
	return FacilityName{value: value}, nil
}

// MustFacilityName panics on invalid input. For tests and literals only.
func MustFacilityName(value string) FacilityName {
	n, err := NewFacilityName(value)
	if err != nil {
		panic(err)
	}
	return n
}

func (n FacilityName) String() string { return n.value }
func (n FacilityName) IsZero() bool   { return n.value == "" }

// SpotNumber is the human-readable label painted on a spot.
type SpotNumber struct {
	value string
}

func NewSpotNumber(value string) (SpotNumber, error) {
	if strings.TrimSpace(value) == "" {
		return SpotNumber{}, ErrEmptySpotNumber
	}
	return SpotNumber{value: value}, nil
}

// MustSpotNumber panics on invalid input. For tests and literals only.
func MustSpotNumber(value string) SpotNumber {
	n, err := NewSpotNumber(value)
	if err != nil {
		panic(err)
	}
	return n
}

func (n SpotNumber) String() string { return n.value }
func (n SpotNumber) IsZero() bool   { return n.value == "" }

// Capacity is a non-negative count of spots a facility can hold.
type Capacity struct {
	value int
}

func NewCapacity(value int) (Capacity, error) {
	if value < 0 {
		return Capacity{}, ErrNegativeCapacity
	}
	return Capacity{value: value}, nil
}

// MustCapacity panics on invalid input. For tests and literals only.
func MustCapacity(value int) Capacity {
	c, err := NewCapacity(value)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Capacity) Value() int { return c.value }
