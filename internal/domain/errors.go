package domain

import (
	"errors"
	"fmt"
)

// Kind classifies domain failures so boundaries can map them to a transport
// status without inspecting concrete types.
type Kind int

const (
	// KindValidation marks malformed input rejected at construction time.
	KindValidation Kind = iota + 1
	// KindNotFound marks lookups whose target aggregate does not exist.
	KindNotFound
	// KindConflict marks business-rule violations on otherwise valid state.
	KindConflict
)

type kinder interface {
	DomainKind() Kind
}

// KindOf extracts the failure kind from err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var k kinder
	if errors.As(err, &k) {
		return k.DomainKind(), true
	}
	return 0, false
}

// Error is the shared shape for fixed-message domain failures.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string    { return e.msg }
func (e *Error) DomainKind() Kind { return e.kind }

func validation(msg string) *Error { return &Error{kind: KindValidation, msg: msg} }
func conflict(msg string) *Error   { return &Error{kind: KindConflict, msg: msg} }

var (
	ErrInvalidTimeSlot     = validation("time slot start must be before end")
	ErrNegativeMoneyAmount = validation("money amount must be non-negative")
	ErrNegativeMoneyResult = validation("subtraction would result in negative amount")
	ErrNegativeMultiplier  = validation("multiply factor must be non-negative")
	ErrInvalidLatitude     = validation("latitude must be between -90 and 90")
	ErrInvalidLongitude    = validation("longitude must be between -180 and 180")
	ErrEmptyPlateValue     = validation("license plate value must not be empty")
	ErrEmptyPlateRegion    = validation("license plate region must not be empty")
	ErrEmptyFacilityName   = validation("facility name must not be empty")
	ErrEmptySpotNumber     = validation("spot number must not be empty")
	ErrNegativeCapacity    = validation("total capacity must be non-negative")
	ErrInvalidExtension    = validation("new end time must be after current end time")
	ErrSessionAlreadyEnded = conflict("session has already ended")

	ErrNonPositiveRadius     = validation("search radius must be positive")
	ErrNonPositiveMultiplier = validation("pricing multiplier must be positive")
	ErrInvalidPeakHours      = validation("peak hours must satisfy 0 <= start < end <= 23")
	ErrNegativeFreeHours     = validation("free hours must be non-negative")
	ErrMissingDailyMax       = validation("daily maximum is required")
)

// RequiredFieldError reports a missing field during construction.
type RequiredFieldError struct {
	Entity string
	Field  string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s.%s is required", e.Entity, e.Field)
}

func (e *RequiredFieldError) DomainKind() Kind { return KindValidation }

func requiredField(entity, field string) error {
	return &RequiredFieldError{Entity: entity, Field: field}
}

// InvalidCurrencyError reports a code outside the ISO 4217 set.
type InvalidCurrencyError struct {
	Code string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("invalid ISO 4217 currency code: %q", e.Code)
}

func (e *InvalidCurrencyError) DomainKind() Kind { return KindValidation }

// CurrencyMismatchError reports arithmetic across currencies.
type CurrencyMismatchError struct {
	A, B string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("cannot operate on different currencies: %s vs %s", e.A, e.B)
}

func (e *CurrencyMismatchError) DomainKind() Kind { return KindValidation }

// StatusTransitionError reports a reservation transition outside the table.
type StatusTransitionError struct {
	From, To string
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *StatusTransitionError) DomainKind() Kind { return KindConflict }

// NotExtendableError reports an extend attempt on a reservation whose status
// does not allow it.
type NotExtendableError struct {
	Status ReservationStatus
}

func (e *NotExtendableError) Error() string {
	return fmt.Sprintf("cannot extend reservation in %s status", e.Status)
}

func (e *NotExtendableError) DomainKind() Kind { return KindConflict }

// CapacityExceededError reports a spot added past the facility capacity.
type CapacityExceededError struct {
	FacilityName string
	Capacity     int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("facility %s has reached its capacity of %d", e.FacilityName, e.Capacity)
}

func (e *CapacityExceededError) DomainKind() Kind { return KindConflict }

// DuplicateSpotError reports a spot id already present in the facility.
type DuplicateSpotError struct {
	SpotID SpotID
}

func (e *DuplicateSpotError) Error() string {
	return fmt.Sprintf("spot %s already exists in this facility", e.SpotID)
}

func (e *DuplicateSpotError) DomainKind() Kind { return KindConflict }

// SpotNotFoundError reports a spot id absent from the facility.
type SpotNotFoundError struct {
	SpotID SpotID
}

func (e *SpotNotFoundError) Error() string {
	return fmt.Sprintf("spot %s not found in this facility", e.SpotID)
}

func (e *SpotNotFoundError) DomainKind() Kind { return KindNotFound }

// SpotNotAvailableError reports a reserve attempt on a non-available spot.
type SpotNotAvailableError struct {
	SpotNumber string
}

func (e *SpotNotAvailableError) Error() string {
	return fmt.Sprintf("spot %s is not available", e.SpotNumber)
}

func (e *SpotNotAvailableError) DomainKind() Kind { return KindConflict }

// SpotAlreadyReservedError reports an overlapping reservation on the spot.
type SpotAlreadyReservedError struct {
	SpotID SpotID
}

func (e *SpotAlreadyReservedError) Error() string {
	return fmt.Sprintf("spot %s is already reserved", e.SpotID)
}

func (e *SpotAlreadyReservedError) DomainKind() Kind { return KindConflict }

// SpotAlreadyOccupiedError reports an active session on the spot.
type SpotAlreadyOccupiedError struct {
	SpotID SpotID
}

func (e *SpotAlreadyOccupiedError) Error() string {
	return fmt.Sprintf("spot %s is already occupied", e.SpotID)
}

func (e *SpotAlreadyOccupiedError) DomainKind() Kind { return KindConflict }

// IneligibleSpotTypeError reports a vehicle/spot type mismatch.
type IneligibleSpotTypeError struct {
	VehicleType VehicleType
	SpotType    SpotType
}

func (e *IneligibleSpotTypeError) Error() string {
	return fmt.Sprintf("vehicle type %s is not eligible for spot type %s", e.VehicleType, e.SpotType)
}

func (e *IneligibleSpotTypeError) DomainKind() Kind { return KindConflict }

// DuplicatePlateError reports a second registration of the same plate.
type DuplicatePlateError struct {
	Plate LicensePlate
}

func (e *DuplicatePlateError) Error() string {
	return fmt.Sprintf("vehicle with plate %s is already registered", e.Plate.Formatted())
}

func (e *DuplicatePlateError) DomainKind() Kind { return KindConflict }

// NotFoundError reports an aggregate lookup miss at the application level.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) DomainKind() Kind { return KindNotFound }
