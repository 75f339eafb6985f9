package domain

import "time"

// ParkingSpot is an entity owned by a ParkingFacility. Its status is only
// mutated through the facility so the aggregate stays the single writer.
type ParkingSpot struct {
	id       SpotID
	number   SpotNumber
	spotType SpotType
	status   SpotStatus
	floor    int
}

// NewParkingSpot builds a spot in the available state.
func NewParkingSpot(id SpotID, number SpotNumber, spotType SpotType, floor int) (*ParkingSpot, error) {
	if id == "" {
		return nil, requiredField("ParkingSpot", "id")
	}
	if number.IsZero() {
		return nil, requiredField("ParkingSpot", "number")
	}
	if spotType == "" {
		return nil, requiredField("ParkingSpot", "spot_type")
	}
	return &ParkingSpot{id: id, number: number, spotType: spotType, status: SpotStatusAvailable, floor: floor}, nil
}

func (s *ParkingSpot) ID() SpotID         { return s.id }
func (s *ParkingSpot) Number() SpotNumber { return s.number }
func (s *ParkingSpot) Type() SpotType     { return s.spotType }
func (s *ParkingSpot) Status() SpotStatus { return s.status }
func (s *ParkingSpot) Floor() int         { return s.floor }

func (s *ParkingSpot) reserve() error {
	if s.status != SpotStatusAvailable {
		return &SpotNotAvailableError{SpotNumber: s.number.String()}
	}
	s.status = SpotStatusReserved
	return nil
}

func (s *ParkingSpot) occupy() error {
	switch s.status {
	case SpotStatusOccupied:
		return &SpotAlreadyOccupiedError{SpotID: s.id}
	case SpotStatusOutOfService:
		return &SpotNotAvailableError{SpotNumber: s.number.String()}
	}
	s.status = SpotStatusOccupied
	return nil
}

// release is idempotent: releasing an already available spot is a no-op.
func (s *ParkingSpot) release() {
	if s.status == SpotStatusReserved || s.status == SpotStatusOccupied {
		s.status = SpotStatusAvailable
	}
}

// ParkingFacility is the aggregate root for spot inventory. Capacity bounds
// the number of spots; spot ids are unique within the facility.
type ParkingFacility struct {
	recorder

	id            FacilityID
	name          FacilityName
	facilityType  FacilityType
	location      Location
	capacity      Capacity
	accessControl AccessControlMethod
	spots         []*ParkingSpot
	createdAt     time.Time
}

// NewParkingFacility creates an empty facility and records FacilityCreated.
func NewParkingFacility(
	id FacilityID,
	name FacilityName,
	facilityType FacilityType,
	location Location,
	capacity Capacity,
	accessControl AccessControlMethod,
	at time.Time,
) (*ParkingFacility, error) {
	if id == "" {
		return nil, requiredField("ParkingFacility", "id")
	}
	if name.IsZero() {
		return nil, requiredField("ParkingFacility", "name")
	}
	if facilityType == "" {
		return nil, requiredField("ParkingFacility", "facility_type")
	}
	if accessControl == "" {
		return nil, requiredField("ParkingFacility", "access_control")
	}
	if at.IsZero() {
		return nil, requiredField("ParkingFacility", "created_at")
	}

	f := &ParkingFacility{
		id:            id,
		name:          name,
		facilityType:  facilityType,
		location:      location,
		capacity:      capacity,
		accessControl: accessControl,
		createdAt:     at,
	}
	event, err := NewFacilityCreated(id, at)
	if err != nil {
		return nil, err
	}
	f.record(event)
	return f, nil
}

func (f *ParkingFacility) ID() FacilityID                     { return f.id }
func (f *ParkingFacility) Name() FacilityName                 { return f.name }
func (f *ParkingFacility) Type() FacilityType                 { return f.facilityType }
func (f *ParkingFacility) Location() Location                 { return f.location }
func (f *ParkingFacility) Capacity() Capacity                 { return f.capacity }
func (f *ParkingFacility) AccessControl() AccessControlMethod { return f.accessControl }
func (f *ParkingFacility) CreatedAt() time.Time               { return f.createdAt }

// Spots returns the inventory in insertion order. Callers must not mutate
// the returned spots directly.
func (f *ParkingFacility) Spots() []*ParkingSpot { return f.spots }

// Spot finds a spot by id.
func (f *ParkingFacility) Spot(spotID SpotID) (*ParkingSpot, error) {
	for _, s := range f.spots {
		if s.id == spotID {
			return s, nil
		}
	}
	return nil, &SpotNotFoundError{SpotID: spotID}
}

// AddSpot appends a spot to the inventory, enforcing the capacity bound and
// spot id uniqueness, and records SpotAdded.
func (f *ParkingFacility) AddSpot(spot *ParkingSpot, at time.Time) error {
	if len(f.spots) >= f.capacity.Value() {
		return &CapacityExceededError{FacilityName: f.name.String(), Capacity: f.capacity.Value()}
	}
	for _, existing := range f.spots {
		if existing.id == spot.id {
			return &DuplicateSpotError{SpotID: spot.id}
		}
	}
	event, err := NewSpotAdded(f.id, spot.id, spot.spotType, at)
	if err != nil {
		return err
	}
	f.spots = append(f.spots, spot)
	f.record(event)
	return nil
}

// RemoveSpot drops a spot from the inventory and records SpotRemoved.
func (f *ParkingFacility) RemoveSpot(spotID SpotID, at time.Time) error {
	idx := -1
	for i, s := range f.spots {
		if s.id == spotID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &SpotNotFoundError{SpotID: spotID}
	}
	event, err := NewSpotRemoved(f.id, spotID, at)
	if err != nil {
		return err
	}
	f.spots = append(f.spots[:idx], f.spots[idx+1:]...)
	f.record(event)
	return nil
}

// ReserveSpot marks an available spot as reserved.
func (f *ParkingFacility) ReserveSpot(spotID SpotID) error {
	spot, err := f.Spot(spotID)
	if err != nil {
		return err
	}
	return spot.reserve()
}

// OccupySpot marks a spot as occupied when a session starts. Both available
// and reserved spots can be occupied.
func (f *ParkingFacility) OccupySpot(spotID SpotID) error {
	spot, err := f.Spot(spotID)
	if err != nil {
		return err
	}
	return spot.occupy()
}

// ReleaseSpot returns a spot to the available state. Releasing a spot that
// is already available is a no-op, so replayed reactions stay safe.
func (f *ParkingFacility) ReleaseSpot(spotID SpotID) error {
	spot, err := f.Spot(spotID)
	if err != nil {
		return err
	}
	spot.release()
	return nil
}

// AvailableSpots returns spots currently in the available state, optionally
// narrowed to a single spot type. Time-slot overlap against reservations is
// the caller's concern.
func (f *ParkingFacility) AvailableSpots(spotType *SpotType) []*ParkingSpot {
	var available []*ParkingSpot
	for _, s := range f.spots {
		if s.status != SpotStatusAvailable {
			continue
		}
		if spotType != nil && s.spotType != *spotType {
			continue
		}
		available = append(available, s)
	}
	return available
}
