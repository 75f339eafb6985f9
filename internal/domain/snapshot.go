package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshots are the flat persistence shape of each aggregate. Stores map
// them to rows or documents; FromSnapshot constructors re-validate on the
// way back in so corrupt storage never yields an invalid aggregate.

type SpotSnapshot struct {
	ID     string
	Number string
	Type   string
	Status string
	Floor  int
}

type FacilitySnapshot struct {
	ID            string
	Name          string
	Type          string
	Latitude      float64
	Longitude     float64
	Address       string
	Capacity      int
	AccessControl string
	Spots         []SpotSnapshot
	CreatedAt     time.Time
}

// Snapshot flattens the facility and its spots.
func (f *ParkingFacility) Snapshot() FacilitySnapshot {
	spots := make([]SpotSnapshot, 0, len(f.spots))
	for _, s := range f.spots {
		spots = append(spots, SpotSnapshot{
			ID:     s.id.String(),
			Number: s.number.String(),
			Type:   string(s.spotType),
			Status: string(s.status),
			Floor:  s.floor,
		})
	}
	return FacilitySnapshot{
		ID:            f.id.String(),
		Name:          f.name.String(),
		Type:          string(f.facilityType),
		Latitude:      f.location.Latitude(),
		Longitude:     f.location.Longitude(),
		Address:       f.location.Address(),
		Capacity:      f.capacity.Value(),
		AccessControl: string(f.accessControl),
		Spots:         spots,
		CreatedAt:     f.createdAt,
	}
}

// FacilityFromSnapshot rebuilds a facility without recording events.
func FacilityFromSnapshot(snap FacilitySnapshot) (*ParkingFacility, error) {
	id, err := ParseFacilityID(snap.ID)
	if err != nil {
		return nil, err
	}
	name, err := NewFacilityName(snap.Name)
	if err != nil {
		return nil, err
	}
	facilityType, err := ParseFacilityType(snap.Type)
	if err != nil {
		return nil, err
	}
	location, err := NewLocation(snap.Latitude, snap.Longitude, snap.Address)
	if err != nil {
		return nil, err
	}
	capacity, err := NewCapacity(snap.Capacity)
	if err != nil {
		return nil, err
	}
	accessControl, err := ParseAccessControlMethod(snap.AccessControl)
	if err != nil {
		return nil, err
	}

	spots := make([]*ParkingSpot, 0, len(snap.Spots))
	for _, ss := range snap.Spots {
		spotID, err := ParseSpotID(ss.ID)
		if err != nil {
			return nil, err
		}
		number, err := NewSpotNumber(ss.Number)
		if err != nil {
			return nil, err
		}
		spotType, err := ParseSpotType(ss.Type)
		if err != nil {
			return nil, err
		}
		status, err := ParseSpotStatus(ss.Status)
		if err != nil {
			return nil, err
		}
		spots = append(spots, &ParkingSpot{
			id:       spotID,
			number:   number,
			spotType: spotType,
			status:   status,
			floor:    ss.Floor,
		})
	}

	return &ParkingFacility{
		id:            id,
		name:          name,
		facilityType:  facilityType,
		location:      location,
		capacity:      capacity,
		accessControl: accessControl,
		spots:         spots,
		createdAt:     snap.CreatedAt,
	}, nil
}

type ReservationSnapshot struct {
	ID           string
	FacilityID   string
	SpotID       string
	VehicleID    string
	SlotStart    time.Time
	SlotEnd      time.Time
	Status       string
	CostAmount   string
	CostCurrency string
	CancelReason string
	CreatedAt    time.Time
}

func (r *Reservation) Snapshot() ReservationSnapshot {
	return ReservationSnapshot{
		ID:           r.id.String(),
		FacilityID:   r.facilityID.String(),
		SpotID:       r.spotID.String(),
		VehicleID:    r.vehicleID.String(),
		SlotStart:    r.slot.Start(),
		SlotEnd:      r.slot.End(),
		Status:       string(r.status),
		CostAmount:   r.cost.Amount().String(),
		CostCurrency: r.cost.Currency().Code(),
		CancelReason: r.cancelReason,
		CreatedAt:    r.createdAt,
	}
}

// ReservationFromSnapshot rebuilds a reservation without recording events.
func ReservationFromSnapshot(snap ReservationSnapshot) (*Reservation, error) {
	id, err := ParseReservationID(snap.ID)
	if err != nil {
		return nil, err
	}
	facilityID, err := ParseFacilityID(snap.FacilityID)
	if err != nil {
		return nil, err
	}
	spotID, err := ParseSpotID(snap.SpotID)
	if err != nil {
		return nil, err
	}
	vehicleID, err := ParseVehicleID(snap.VehicleID)
	if err != nil {
		return nil, err
	}
	slot, err := NewTimeSlot(snap.SlotStart, snap.SlotEnd)
	if err != nil {
		return nil, err
	}
	status, err := ParseReservationStatus(snap.Status)
	if err != nil {
		return nil, err
	}
	cost, err := moneyFromSnapshot(snap.CostAmount, snap.CostCurrency)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:           id,
		facilityID:   facilityID,
		spotID:       spotID,
		vehicleID:    vehicleID,
		slot:         slot,
		status:       status,
		cost:         cost,
		cancelReason: snap.CancelReason,
		createdAt:    snap.CreatedAt,
	}, nil
}

type SessionSnapshot struct {
	ID            string
	ReservationID string
	FacilityID    string
	SpotID        string
	VehicleID     string
	EntryTime     time.Time
	ExitTime      time.Time
	CostAmount    string
	CostCurrency  string
}

func (s *ParkingSession) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:            s.id.String(),
		ReservationID: s.reservationID.String(),
		FacilityID:    s.facilityID.String(),
		SpotID:        s.spotID.String(),
		VehicleID:     s.vehicleID.String(),
		EntryTime:     s.entryTime,
		ExitTime:      s.exitTime,
		CostAmount:    s.cost.Amount().String(),
		CostCurrency:  s.cost.Currency().Code(),
	}
}

// SessionFromSnapshot rebuilds a session without recording events.
func SessionFromSnapshot(snap SessionSnapshot) (*ParkingSession, error) {
	id, err := ParseSessionID(snap.ID)
	if err != nil {
		return nil, err
	}
	facilityID, err := ParseFacilityID(snap.FacilityID)
	if err != nil {
		return nil, err
	}
	spotID, err := ParseSpotID(snap.SpotID)
	if err != nil {
		return nil, err
	}
	vehicleID, err := ParseVehicleID(snap.VehicleID)
	if err != nil {
		return nil, err
	}
	cost, err := moneyFromSnapshot(snap.CostAmount, snap.CostCurrency)
	if err != nil {
		return nil, err
	}
	if snap.EntryTime.IsZero() {
		return nil, requiredField("ParkingSession", "entry_time")
	}

	return &ParkingSession{
		id:            id,
		reservationID: ReservationID(snap.ReservationID),
		facilityID:    facilityID,
		spotID:        spotID,
		vehicleID:     vehicleID,
		entryTime:     snap.EntryTime,
		exitTime:      snap.ExitTime,
		cost:          cost,
	}, nil
}

type VehicleSnapshot struct {
	ID           string
	OwnerID      string
	PlateValue   string
	PlateRegion  string
	Type         string
	IsElectric   bool
	RegisteredAt time.Time
}

func (v *Vehicle) Snapshot() VehicleSnapshot {
	return VehicleSnapshot{
		ID:           v.id.String(),
		OwnerID:      v.ownerID.String(),
		PlateValue:   v.plate.Value(),
		PlateRegion:  v.plate.Region(),
		Type:         string(v.vehicleType),
		IsElectric:   v.isElectric,
		RegisteredAt: v.registeredAt,
	}
}

// VehicleFromSnapshot rebuilds a vehicle without recording events.
func VehicleFromSnapshot(snap VehicleSnapshot) (*Vehicle, error) {
	id, err := ParseVehicleID(snap.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := ParseOwnerID(snap.OwnerID)
	if err != nil {
		return nil, err
	}
	plate, err := NewLicensePlate(snap.PlateValue, snap.PlateRegion)
	if err != nil {
		return nil, err
	}
	vehicleType, err := ParseVehicleType(snap.Type)
	if err != nil {
		return nil, err
	}

	return &Vehicle{
		id:           id,
		ownerID:      ownerID,
		plate:        plate,
		vehicleType:  vehicleType,
		isElectric:   snap.IsElectric,
		registeredAt: snap.RegisteredAt,
	}, nil
}

func moneyFromSnapshot(amount, currency string) (Money, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, requiredField("Money", "amount")
	}
	cur, err := NewCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(value, cur)
}
