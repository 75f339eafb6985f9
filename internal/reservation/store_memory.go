package reservation

import (
	"context"
	"sync"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// InMemory is the dev and test reservation store. The overlap re-check on
// Save runs inside the mutex, so two racing saves for the same spot and
// slot cannot both win.
type InMemory struct {
	mu           sync.RWMutex
	reservations map[domain.ReservationID]domain.ReservationSnapshot
	outbox       outbox.Store
}

func NewInMemory(outboxStore outbox.Store) *InMemory {
	return &InMemory{
		reservations: make(map[domain.ReservationID]domain.ReservationSnapshot),
		outbox:       outboxStore,
	}
}

func (s *InMemory) Save(ctx context.Context, reservation *domain.Reservation, entries []outbox.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !reservation.Status().IsTerminal() {
		for _, snap := range s.reservations {
			if snap.ID == reservation.ID().String() || snap.SpotID != reservation.SpotID().String() {
				continue
			}
			status, err := domain.ParseReservationStatus(snap.Status)
			if err != nil {
				return err
			}
			if status.IsTerminal() {
				continue
			}
			other, err := domain.NewTimeSlot(snap.SlotStart, snap.SlotEnd)
			if err != nil {
				return err
			}
			if reservation.Slot().Overlaps(other) {
				return storage.ErrConflict
			}
		}
	}

	s.reservations[reservation.ID()] = reservation.Snapshot()
	if len(entries) == 0 {
		return nil
	}
	return s.outbox.Append(ctx, entries...)
}

func (s *InMemory) FindByID(_ context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	s.mu.RLock()
	snap, ok := s.reservations[id]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.ReservationFromSnapshot(snap)
}

func (s *InMemory) FindBySpotAndTime(_ context.Context, spotID domain.SpotID, slot domain.TimeSlot) ([]*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*domain.Reservation
	for _, snap := range s.reservations {
		if snap.SpotID != spotID.String() {
			continue
		}
		other, err := domain.NewTimeSlot(snap.SlotStart, snap.SlotEnd)
		if err != nil {
			return nil, err
		}
		if !slot.Overlaps(other) {
			continue
		}
		reservation, err := domain.ReservationFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		matches = append(matches, reservation)
	}
	return matches, nil
}

func (s *InMemory) FindByVehicle(_ context.Context, vehicleID domain.VehicleID) ([]*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*domain.Reservation
	for _, snap := range s.reservations {
		if snap.VehicleID != vehicleID.String() {
			continue
		}
		reservation, err := domain.ReservationFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		matches = append(matches, reservation)
	}
	return matches, nil
}
