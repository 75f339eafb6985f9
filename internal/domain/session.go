package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerHour = 3600

// ParkingSession is the aggregate root for a vehicle physically occupying a
// spot. It may reference a reservation (a zero reservation id means a
// drive-up session); the reference is used for the completion cascade only,
// the session does not own the reservation.
type ParkingSession struct {
	recorder

	id            SessionID
	reservationID ReservationID
	facilityID    FacilityID
	spotID        SpotID
	vehicleID     VehicleID
	entryTime     time.Time
	exitTime      time.Time
	cost          Money
}

// NewParkingSession starts a session at entry time with its initial cost,
// usually zero in the facility's currency, and records SessionStarted.
func NewParkingSession(
	id SessionID,
	facilityID FacilityID,
	spotID SpotID,
	vehicleID VehicleID,
	reservationID ReservationID,
	entryTime time.Time,
	initialCost Money,
) (*ParkingSession, error) {
	if id == "" {
		return nil, requiredField("ParkingSession", "id")
	}
	if facilityID == "" {
		return nil, requiredField("ParkingSession", "facility_id")
	}
	if spotID == "" {
		return nil, requiredField("ParkingSession", "spot_id")
	}
	if vehicleID == "" {
		return nil, requiredField("ParkingSession", "vehicle_id")
	}
	if entryTime.IsZero() {
		return nil, requiredField("ParkingSession", "entry_time")
	}
	if initialCost.IsZero() {
		return nil, requiredField("ParkingSession", "initial_cost")
	}

	s := &ParkingSession{
		id:            id,
		reservationID: reservationID,
		facilityID:    facilityID,
		spotID:        spotID,
		vehicleID:     vehicleID,
		entryTime:     entryTime,
		cost:          initialCost,
	}
	event, err := NewSessionStarted(id, facilityID, spotID, vehicleID, entryTime)
	if err != nil {
		return nil, err
	}
	s.record(event)
	return s, nil
}

func (s *ParkingSession) ID() SessionID                { return s.id }
func (s *ParkingSession) ReservationID() ReservationID { return s.reservationID }
func (s *ParkingSession) FacilityID() FacilityID       { return s.facilityID }
func (s *ParkingSession) SpotID() SpotID               { return s.spotID }
func (s *ParkingSession) VehicleID() VehicleID         { return s.vehicleID }
func (s *ParkingSession) EntryTime() time.Time         { return s.entryTime }
func (s *ParkingSession) ExitTime() time.Time          { return s.exitTime }
func (s *ParkingSession) Cost() Money                  { return s.cost }

// HasReservation reports whether the session was started against a booking.
func (s *ParkingSession) HasReservation() bool { return s.reservationID != "" }

// IsActive reports whether the vehicle is still parked.
func (s *ParkingSession) IsActive() bool { return s.exitTime.IsZero() }

// CalculateCost prices elapsed time at the given hourly rate: exit time if
// the session has ended, otherwise now. Fractions of an hour are billed
// proportionally, not rounded up. Pure, does not mutate the session.
func (s *ParkingSession) CalculateCost(ratePerHour Money, now time.Time) (Money, error) {
	reference := now
	if !s.exitTime.IsZero() {
		reference = s.exitTime
	}
	if reference.Before(s.entryTime) {
		return Money{}, ErrInvalidTimeSlot
	}
	hours := decimal.NewFromFloat(reference.Sub(s.entryTime).Seconds()).
		Div(decimal.NewFromInt(secondsPerHour))
	return ratePerHour.Multiply(hours)
}

// Extend replaces the running cost and records SessionExtended. The new end
// is carried on the event for subscribers; entry and exit times are not
// touched.
func (s *ParkingSession) Extend(newEnd time.Time, newTotalCost Money, at time.Time) error {
	if !s.IsActive() {
		return ErrSessionAlreadyEnded
	}
	event, err := NewSessionExtended(s.id, newEnd, newTotalCost, at)
	if err != nil {
		return err
	}
	s.cost = newTotalCost
	s.record(event)
	return nil
}

// End closes the session with its final cost and records SessionEnded, which
// drives spot release and reservation completion.
func (s *ParkingSession) End(totalCost Money, exitTime time.Time) error {
	if !s.IsActive() {
		return ErrSessionAlreadyEnded
	}
	if exitTime.Before(s.entryTime) {
		return ErrInvalidTimeSlot
	}
	event, err := NewSessionEnded(s.id, totalCost, exitTime)
	if err != nil {
		return err
	}
	s.exitTime = exitTime
	s.cost = totalCost
	s.record(event)
	return nil
}
