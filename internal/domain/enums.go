package domain

import "fmt"

// Closed enumerations for the parking domain. Each carries a parse helper
// that rejects unknown values at trust boundaries, so raw strings never
// reach aggregate code.

// SpotType classifies what kind of vehicle a spot physically fits.
type SpotType string

const (
	SpotTypeStandard    SpotType = "standard"
	SpotTypeEVCharging  SpotType = "ev_charging"
	SpotTypeHandicapped SpotType = "handicapped"
	SpotTypeMotorcycle  SpotType = "motorcycle"
	SpotTypeOversized   SpotType = "oversized"
	SpotTypeBicycle     SpotType = "bicycle"
)

func ParseSpotType(raw string) (SpotType, error) {
	switch SpotType(raw) {
	case SpotTypeStandard, SpotTypeEVCharging, SpotTypeHandicapped,
		SpotTypeMotorcycle, SpotTypeOversized, SpotTypeBicycle:
		return SpotType(raw), nil
	}
	return "", validation(fmt.Sprintf("unknown spot type: %q", raw))
}

// SpotStatus is the occupancy state of a single spot.
type SpotStatus string

const (
	SpotStatusAvailable    SpotStatus = "available"
	SpotStatusOccupied     SpotStatus = "occupied"
	SpotStatusReserved     SpotStatus = "reserved"
	SpotStatusOutOfService SpotStatus = "out_of_service"
)

func ParseSpotStatus(raw string) (SpotStatus, error) {
	switch SpotStatus(raw) {
	case SpotStatusAvailable, SpotStatusOccupied, SpotStatusReserved, SpotStatusOutOfService:
		return SpotStatus(raw), nil
	}
	return "", validation(fmt.Sprintf("unknown spot status: %q", raw))
}

// FacilityType distinguishes public garages from private lots.
type FacilityType string

const (
	FacilityTypePublic  FacilityType = "public"
	FacilityTypePrivate FacilityType = "private"
)

func ParseFacilityType(raw string) (FacilityType, error) {
	switch FacilityType(raw) {
	case FacilityTypePublic, FacilityTypePrivate:
		return FacilityType(raw), nil
	}
	return "", validation(fmt.Sprintf("unknown facility type: %q", raw))
}

// AccessControlMethod is how vehicles are admitted at the gate.
type AccessControlMethod string

const (
	AccessControlLPR         AccessControlMethod = "lpr"
	AccessControlQRCode      AccessControlMethod = "qr_code"
	AccessControlDigitalPass AccessControlMethod = "digital_pass"
	AccessControlGateBarrier AccessControlMethod = "gate_barrier"
)

func ParseAccessControlMethod(raw string) (AccessControlMethod, error) {
	switch AccessControlMethod(raw) {
	case AccessControlLPR, AccessControlQRCode, AccessControlDigitalPass, AccessControlGateBarrier:
		return AccessControlMethod(raw), nil
	}
	return "", validation(fmt.Sprintf("unknown access control method: %q", raw))
}

// ReservationStatus is the booking lifecycle state.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

func ParseReservationStatus(raw string) (ReservationStatus, error) {
	switch ReservationStatus(raw) {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusActive,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return ReservationStatus(raw), nil
	}
	return "", validation(fmt.Sprintf("unknown reservation status: %q", raw))
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

// VehicleType classifies registered vehicles for spot eligibility.
type VehicleType string

const (
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
	VehicleTypeTruck      VehicleType = "truck"
	VehicleTypeBicycle    VehicleType = "bicycle"
)

func ParseVehicleType(raw string) (VehicleType, error) {
	switch VehicleType(raw) {
	case VehicleTypeCar, VehicleTypeMotorcycle, VehicleTypeTruck, VehicleTypeBicycle:
		return VehicleType(raw), nil
	}
	return "", validation(fmt.Sprintf("unknown vehicle type: %q", raw))
}
