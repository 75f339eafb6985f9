package domain

import "time"

// reservationTransitions is the closed set of legal status moves. Anything
// outside the table is a StatusTransitionError, including moves out of the
// terminal states.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusActive, ReservationStatusCancelled},
	ReservationStatusActive:    {ReservationStatusCompleted, ReservationStatusCancelled},
	ReservationStatusCompleted: {},
	ReservationStatusCancelled: {},
}

// Reservation is the aggregate root for a booking of one spot over one time
// slot. The total cost is fixed at creation and is not recomputed when the
// slot is extended.
type Reservation struct {
	recorder

	id           ReservationID
	facilityID   FacilityID
	spotID       SpotID
	vehicleID    VehicleID
	slot         TimeSlot
	status       ReservationStatus
	cost         Money
	cancelReason string
	createdAt    time.Time
}

// NewReservation creates a pending reservation and records ReservationCreated.
func NewReservation(
	id ReservationID,
	facilityID FacilityID,
	spotID SpotID,
	vehicleID VehicleID,
	slot TimeSlot,
	cost Money,
	at time.Time,
) (*Reservation, error) {
	if id == "" {
		return nil, requiredField("Reservation", "id")
	}
	if facilityID == "" {
		return nil, requiredField("Reservation", "facility_id")
	}
	if spotID == "" {
		return nil, requiredField("Reservation", "spot_id")
	}
	if vehicleID == "" {
		return nil, requiredField("Reservation", "vehicle_id")
	}
	if slot.IsZero() {
		return nil, requiredField("Reservation", "time_slot")
	}
	if cost.IsZero() {
		return nil, requiredField("Reservation", "cost")
	}
	if at.IsZero() {
		return nil, requiredField("Reservation", "created_at")
	}

	r := &Reservation{
		id:         id,
		facilityID: facilityID,
		spotID:     spotID,
		vehicleID:  vehicleID,
		slot:       slot,
		status:     ReservationStatusPending,
		cost:       cost,
		createdAt:  at,
	}
	event, err := NewReservationCreated(id, facilityID, spotID, vehicleID, slot, at)
	if err != nil {
		return nil, err
	}
	r.record(event)
	return r, nil
}

func (r *Reservation) ID() ReservationID         { return r.id }
func (r *Reservation) FacilityID() FacilityID    { return r.facilityID }
func (r *Reservation) SpotID() SpotID            { return r.spotID }
func (r *Reservation) VehicleID() VehicleID      { return r.vehicleID }
func (r *Reservation) Slot() TimeSlot            { return r.slot }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) Cost() Money               { return r.cost }
func (r *Reservation) CancelReason() string      { return r.cancelReason }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }

func (r *Reservation) transitionTo(target ReservationStatus) error {
	for _, allowed := range reservationTransitions[r.status] {
		if allowed == target {
			r.status = target
			return nil
		}
	}
	return &StatusTransitionError{From: string(r.status), To: string(target)}
}

// Confirm moves a pending reservation to confirmed.
func (r *Reservation) Confirm(at time.Time) error {
	if err := r.transitionTo(ReservationStatusConfirmed); err != nil {
		return err
	}
	event, err := NewReservationConfirmed(r.id, at)
	if err != nil {
		return err
	}
	r.record(event)
	return nil
}

// Activate marks the parker as arrived.
func (r *Reservation) Activate(at time.Time) error {
	if err := r.transitionTo(ReservationStatusActive); err != nil {
		return err
	}
	event, err := NewReservationActivated(r.id, at)
	if err != nil {
		return err
	}
	r.record(event)
	return nil
}

// Complete closes an active reservation successfully.
func (r *Reservation) Complete(at time.Time) error {
	if err := r.transitionTo(ReservationStatusCompleted); err != nil {
		return err
	}
	event, err := NewReservationCompleted(r.id, at)
	if err != nil {
		return err
	}
	r.record(event)
	return nil
}

// Cancel aborts the reservation from any non-terminal status and records the
// reason. The recorded ReservationCancelled event drives the spot release.
func (r *Reservation) Cancel(reason string, at time.Time) error {
	if err := r.transitionTo(ReservationStatusCancelled); err != nil {
		return err
	}
	event, err := NewReservationCancelled(r.id, reason, at)
	if err != nil {
		return err
	}
	r.cancelReason = reason
	r.record(event)
	return nil
}

// Extend stretches the slot end of a confirmed or active reservation. The
// new end must fall strictly after the current one; the cost stays as quoted
// at creation.
func (r *Reservation) Extend(newEnd time.Time) error {
	if r.status != ReservationStatusConfirmed && r.status != ReservationStatusActive {
		return &NotExtendableError{Status: r.status}
	}
	if !newEnd.After(r.slot.End()) {
		return ErrInvalidExtension
	}
	extended, err := NewTimeSlot(r.slot.Start(), newEnd)
	if err != nil {
		return err
	}
	r.slot = extended
	return nil
}
