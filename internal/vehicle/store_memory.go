package vehicle

import (
	"context"
	"sync"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

type plateKey struct {
	value  string
	region string
}

// InMemory is the dev and test vehicle store.
type InMemory struct {
	mu       sync.RWMutex
	vehicles map[domain.VehicleID]domain.VehicleSnapshot
	byPlate  map[plateKey]domain.VehicleID
	outbox   outbox.Store
}

func NewInMemory(outboxStore outbox.Store) *InMemory {
	return &InMemory{
		vehicles: make(map[domain.VehicleID]domain.VehicleSnapshot),
		byPlate:  make(map[plateKey]domain.VehicleID),
		outbox:   outboxStore,
	}
}

func (s *InMemory) Save(ctx context.Context, vehicle *domain.Vehicle, entries []outbox.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := plateKey{value: vehicle.Plate().Value(), region: vehicle.Plate().Region()}
	if existing, ok := s.byPlate[key]; ok && existing != vehicle.ID() {
		return storage.ErrConflict
	}

	s.vehicles[vehicle.ID()] = vehicle.Snapshot()
	s.byPlate[key] = vehicle.ID()
	if len(entries) == 0 {
		return nil
	}
	return s.outbox.Append(ctx, entries...)
}

func (s *InMemory) FindByID(_ context.Context, id domain.VehicleID) (*domain.Vehicle, error) {
	s.mu.RLock()
	snap, ok := s.vehicles[id]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.VehicleFromSnapshot(snap)
}

func (s *InMemory) FindByOwner(_ context.Context, ownerID domain.OwnerID) ([]*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*domain.Vehicle
	for _, snap := range s.vehicles {
		if snap.OwnerID != ownerID.String() {
			continue
		}
		vehicle, err := domain.VehicleFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		owned = append(owned, vehicle)
	}
	return owned, nil
}

func (s *InMemory) FindByPlate(_ context.Context, plate domain.LicensePlate) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPlate[plateKey{value: plate.Value(), region: plate.Region()}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.VehicleFromSnapshot(s.vehicles[id])
}
