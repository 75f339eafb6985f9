package domain

import "time"

// Event names double as dispatch keys for the in-process bus and as the
// event_name column of the outbox.
const (
	EventFacilityCreated      = "facility.created"
	EventSpotAdded            = "facility.spot_added"
	EventSpotRemoved          = "facility.spot_removed"
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationActivated = "reservation.activated"
	EventReservationCompleted = "reservation.completed"
	EventReservationCancelled = "reservation.cancelled"
	EventSessionStarted       = "session.started"
	EventSessionExtended      = "session.extended"
	EventSessionEnded         = "session.ended"
	EventVehicleRegistered    = "vehicle.registered"
)

// Event is an immutable fact recorded by an aggregate during mutation. The
// timestamp is supplied by the caller so it reflects the mutation's logical
// time, not the wall-clock time of publication.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// FacilityCreated records the creation of a parking facility.
type FacilityCreated struct {
	FacilityID FacilityID `json:"facility_id"`
	At         time.Time  `json:"occurred_at"`
}

func NewFacilityCreated(facilityID FacilityID, at time.Time) (FacilityCreated, error) {
	if facilityID == "" {
		return FacilityCreated{}, requiredField("FacilityCreated", "facility_id")
	}
	if at.IsZero() {
		return FacilityCreated{}, requiredField("FacilityCreated", "occurred_at")
	}
	return FacilityCreated{FacilityID: facilityID, At: at}, nil
}

func (e FacilityCreated) EventName() string     { return EventFacilityCreated }
func (e FacilityCreated) AggregateID() string   { return e.FacilityID.String() }
func (e FacilityCreated) OccurredAt() time.Time { return e.At }

// SpotAdded records a spot appended to a facility's inventory.
type SpotAdded struct {
	FacilityID FacilityID `json:"facility_id"`
	SpotID     SpotID     `json:"spot_id"`
	SpotType   SpotType   `json:"spot_type"`
	At         time.Time  `json:"occurred_at"`
}

func NewSpotAdded(facilityID FacilityID, spotID SpotID, spotType SpotType, at time.Time) (SpotAdded, error) {
	if facilityID == "" {
		return SpotAdded{}, requiredField("SpotAdded", "facility_id")
	}
	if spotID == "" {
		return SpotAdded{}, requiredField("SpotAdded", "spot_id")
	}
	if spotType == "" {
		return SpotAdded{}, requiredField("SpotAdded", "spot_type")
	}
	if at.IsZero() {
		return SpotAdded{}, requiredField("SpotAdded", "occurred_at")
	}
	return SpotAdded{FacilityID: facilityID, SpotID: spotID, SpotType: spotType, At: at}, nil
}

func (e SpotAdded) EventName() string     { return EventSpotAdded }
func (e SpotAdded) AggregateID() string   { return e.FacilityID.String() }
func (e SpotAdded) OccurredAt() time.Time { return e.At }

// SpotRemoved records a spot removed from a facility's inventory.
type SpotRemoved struct {
	FacilityID FacilityID `json:"facility_id"`
	SpotID     SpotID     `json:"spot_id"`
	At         time.Time  `json:"occurred_at"`
}

func NewSpotRemoved(facilityID FacilityID, spotID SpotID, at time.Time) (SpotRemoved, error) {
	if facilityID == "" {
		return SpotRemoved{}, requiredField("SpotRemoved", "facility_id")
	}
	if spotID == "" {
		return SpotRemoved{}, requiredField("SpotRemoved", "spot_id")
	}
	if at.IsZero() {
		return SpotRemoved{}, requiredField("SpotRemoved", "occurred_at")
	}
	return SpotRemoved{FacilityID: facilityID, SpotID: spotID, At: at}, nil
}

func (e SpotRemoved) EventName() string     { return EventSpotRemoved }
func (e SpotRemoved) AggregateID() string   { return e.FacilityID.String() }
func (e SpotRemoved) OccurredAt() time.Time { return e.At }

// ReservationCreated records a new pending reservation.
type ReservationCreated struct {
	ReservationID ReservationID `json:"reservation_id"`
	FacilityID    FacilityID    `json:"facility_id"`
	SpotID        SpotID        `json:"spot_id"`
	VehicleID     VehicleID     `json:"vehicle_id"`
	SlotStart     time.Time     `json:"slot_start"`
	SlotEnd       time.Time     `json:"slot_end"`
	At            time.Time     `json:"occurred_at"`
}

func NewReservationCreated(reservationID ReservationID, facilityID FacilityID, spotID SpotID, vehicleID VehicleID, slot TimeSlot, at time.Time) (ReservationCreated, error) {
	if reservationID == "" {
		return ReservationCreated{}, requiredField("ReservationCreated", "reservation_id")
	}
	if facilityID == "" {
		return ReservationCreated{}, requiredField("ReservationCreated", "facility_id")
	}
	if spotID == "" {
		return ReservationCreated{}, requiredField("ReservationCreated", "spot_id")
	}
	if vehicleID == "" {
		return ReservationCreated{}, requiredField("ReservationCreated", "vehicle_id")
	}
	if slot.IsZero() {
		return ReservationCreated{}, requiredField("ReservationCreated", "time_slot")
	}
	if at.IsZero() {
		return ReservationCreated{}, requiredField("ReservationCreated", "occurred_at")
	}
	return ReservationCreated{
		ReservationID: reservationID,
		FacilityID:    facilityID,
		SpotID:        spotID,
		VehicleID:     vehicleID,
		SlotStart:     slot.Start(),
		SlotEnd:       slot.End(),
		At:            at,
	}, nil
}

func (e ReservationCreated) EventName() string     { return EventReservationCreated }
func (e ReservationCreated) AggregateID() string   { return e.ReservationID.String() }
func (e ReservationCreated) OccurredAt() time.Time { return e.At }

// ReservationConfirmed records a pending reservation being confirmed.
type ReservationConfirmed struct {
	ReservationID ReservationID `json:"reservation_id"`
	At            time.Time     `json:"occurred_at"`
}

func NewReservationConfirmed(reservationID ReservationID, at time.Time) (ReservationConfirmed, error) {
	if reservationID == "" {
		return ReservationConfirmed{}, requiredField("ReservationConfirmed", "reservation_id")
	}
	if at.IsZero() {
		return ReservationConfirmed{}, requiredField("ReservationConfirmed", "occurred_at")
	}
	return ReservationConfirmed{ReservationID: reservationID, At: at}, nil
}

func (e ReservationConfirmed) EventName() string     { return EventReservationConfirmed }
func (e ReservationConfirmed) AggregateID() string   { return e.ReservationID.String() }
func (e ReservationConfirmed) OccurredAt() time.Time { return e.At }

// ReservationActivated records the parker arriving and the booking going live.
type ReservationActivated struct {
	ReservationID ReservationID `json:"reservation_id"`
	At            time.Time     `json:"occurred_at"`
}

func NewReservationActivated(reservationID ReservationID, at time.Time) (ReservationActivated, error) {
	if reservationID == "" {
		return ReservationActivated{}, requiredField("ReservationActivated", "reservation_id")
	}
	if at.IsZero() {
		return ReservationActivated{}, requiredField("ReservationActivated", "occurred_at")
	}
	return ReservationActivated{ReservationID: reservationID, At: at}, nil
}

func (e ReservationActivated) EventName() string     { return EventReservationActivated }
func (e ReservationActivated) AggregateID() string   { return e.ReservationID.String() }
func (e ReservationActivated) OccurredAt() time.Time { return e.At }

// ReservationCompleted records a reservation reaching its terminal success
// state.
type ReservationCompleted struct {
	ReservationID ReservationID `json:"reservation_id"`
	At            time.Time     `json:"occurred_at"`
}

func NewReservationCompleted(reservationID ReservationID, at time.Time) (ReservationCompleted, error) {
	if reservationID == "" {
		return ReservationCompleted{}, requiredField("ReservationCompleted", "reservation_id")
	}
	if at.IsZero() {
		return ReservationCompleted{}, requiredField("ReservationCompleted", "occurred_at")
	}
	return ReservationCompleted{ReservationID: reservationID, At: at}, nil
}

func (e ReservationCompleted) EventName() string     { return EventReservationCompleted }
func (e ReservationCompleted) AggregateID() string   { return e.ReservationID.String() }
func (e ReservationCompleted) OccurredAt() time.Time { return e.At }

// ReservationCancelled triggers the spot-release consistency reaction.
type ReservationCancelled struct {
	ReservationID ReservationID `json:"reservation_id"`
	Reason        string        `json:"reason"`
	At            time.Time     `json:"occurred_at"`
}

func NewReservationCancelled(reservationID ReservationID, reason string, at time.Time) (ReservationCancelled, error) {
	if reservationID == "" {
		return ReservationCancelled{}, requiredField("ReservationCancelled", "reservation_id")
	}
	if at.IsZero() {
		return ReservationCancelled{}, requiredField("ReservationCancelled", "occurred_at")
	}
	return ReservationCancelled{ReservationID: reservationID, Reason: reason, At: at}, nil
}

func (e ReservationCancelled) EventName() string     { return EventReservationCancelled }
func (e ReservationCancelled) AggregateID() string   { return e.ReservationID.String() }
func (e ReservationCancelled) OccurredAt() time.Time { return e.At }

// SessionStarted records a vehicle entering a spot.
type SessionStarted struct {
	SessionID  SessionID  `json:"session_id"`
	FacilityID FacilityID `json:"facility_id"`
	SpotID     SpotID     `json:"spot_id"`
	VehicleID  VehicleID  `json:"vehicle_id"`
	At         time.Time  `json:"occurred_at"`
}

func NewSessionStarted(sessionID SessionID, facilityID FacilityID, spotID SpotID, vehicleID VehicleID, at time.Time) (SessionStarted, error) {
	if sessionID == "" {
		return SessionStarted{}, requiredField("SessionStarted", "session_id")
	}
	if facilityID == "" {
		return SessionStarted{}, requiredField("SessionStarted", "facility_id")
	}
	if spotID == "" {
		return SessionStarted{}, requiredField("SessionStarted", "spot_id")
	}
	if vehicleID == "" {
		return SessionStarted{}, requiredField("SessionStarted", "vehicle_id")
	}
	if at.IsZero() {
		return SessionStarted{}, requiredField("SessionStarted", "occurred_at")
	}
	return SessionStarted{SessionID: sessionID, FacilityID: facilityID, SpotID: spotID, VehicleID: vehicleID, At: at}, nil
}

func (e SessionStarted) EventName() string     { return EventSessionStarted }
func (e SessionStarted) AggregateID() string   { return e.SessionID.String() }
func (e SessionStarted) OccurredAt() time.Time { return e.At }

// SessionExtended records a running session being stretched to a new end with
// an explicitly recomputed cost.
type SessionExtended struct {
	SessionID    SessionID `json:"session_id"`
	NewEnd       time.Time `json:"new_end"`
	NewTotalCost Money     `json:"-"`
	At           time.Time `json:"occurred_at"`
}

func NewSessionExtended(sessionID SessionID, newEnd time.Time, newTotalCost Money, at time.Time) (SessionExtended, error) {
	if sessionID == "" {
		return SessionExtended{}, requiredField("SessionExtended", "session_id")
	}
	if newEnd.IsZero() {
		return SessionExtended{}, requiredField("SessionExtended", "new_end")
	}
	if newTotalCost.IsZero() {
		return SessionExtended{}, requiredField("SessionExtended", "new_total_cost")
	}
	if at.IsZero() {
		return SessionExtended{}, requiredField("SessionExtended", "occurred_at")
	}
	return SessionExtended{SessionID: sessionID, NewEnd: newEnd, NewTotalCost: newTotalCost, At: at}, nil
}

func (e SessionExtended) EventName() string     { return EventSessionExtended }
func (e SessionExtended) AggregateID() string   { return e.SessionID.String() }
func (e SessionExtended) OccurredAt() time.Time { return e.At }

// SessionEnded triggers spot release and reservation-completion cascade.
type SessionEnded struct {
	SessionID SessionID `json:"session_id"`
	TotalCost Money     `json:"-"`
	At        time.Time `json:"occurred_at"`
}

func NewSessionEnded(sessionID SessionID, totalCost Money, at time.Time) (SessionEnded, error) {
	if sessionID == "" {
		return SessionEnded{}, requiredField("SessionEnded", "session_id")
	}
	if totalCost.IsZero() {
		return SessionEnded{}, requiredField("SessionEnded", "total_cost")
	}
	if at.IsZero() {
		return SessionEnded{}, requiredField("SessionEnded", "occurred_at")
	}
	return SessionEnded{SessionID: sessionID, TotalCost: totalCost, At: at}, nil
}

func (e SessionEnded) EventName() string     { return EventSessionEnded }
func (e SessionEnded) AggregateID() string   { return e.SessionID.String() }
func (e SessionEnded) OccurredAt() time.Time { return e.At }

// VehicleRegistered records a vehicle entering the system.
type VehicleRegistered struct {
	VehicleID   VehicleID `json:"vehicle_id"`
	OwnerID     OwnerID   `json:"owner_id"`
	PlateValue  string    `json:"plate_value"`
	PlateRegion string    `json:"plate_region"`
	At          time.Time `json:"occurred_at"`
}

func NewVehicleRegistered(vehicleID VehicleID, ownerID OwnerID, plate LicensePlate, at time.Time) (VehicleRegistered, error) {
	if vehicleID == "" {
		return VehicleRegistered{}, requiredField("VehicleRegistered", "vehicle_id")
	}
	if ownerID == "" {
		return VehicleRegistered{}, requiredField("VehicleRegistered", "owner_id")
	}
	if plate.IsZero() {
		return VehicleRegistered{}, requiredField("VehicleRegistered", "license_plate")
	}
	if at.IsZero() {
		return VehicleRegistered{}, requiredField("VehicleRegistered", "occurred_at")
	}
	return VehicleRegistered{
		VehicleID:   vehicleID,
		OwnerID:     ownerID,
		PlateValue:  plate.Value(),
		PlateRegion: plate.Region(),
		At:          at,
	}, nil
}

func (e VehicleRegistered) EventName() string     { return EventVehicleRegistered }
func (e VehicleRegistered) AggregateID() string   { return e.VehicleID.String() }
func (e VehicleRegistered) OccurredAt() time.Time { return e.At }
