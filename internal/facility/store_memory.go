package facility

import (
	"context"
	"sync"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// InMemory is the dev and test facility store. It keeps snapshots, not live
// aggregates, so callers never share mutable state through the store.
type InMemory struct {
	mu         sync.RWMutex
	facilities map[domain.FacilityID]domain.FacilitySnapshot
	outbox     outbox.Store
}

func NewInMemory(outboxStore outbox.Store) *InMemory {
	return &InMemory{
		facilities: make(map[domain.FacilityID]domain.FacilitySnapshot),
		outbox:     outboxStore,
	}
}

func (s *InMemory) Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[facility.ID()] = facility.Snapshot()
	if len(entries) == 0 {
		return nil
	}
	return s.outbox.Append(ctx, entries...)
}

func (s *InMemory) FindByID(_ context.Context, id domain.FacilityID) (*domain.ParkingFacility, error) {
	s.mu.RLock()
	snap, ok := s.facilities[id]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.FacilityFromSnapshot(snap)
}

func (s *InMemory) FindByLocation(_ context.Context, center domain.Location, radiusKm float64) ([]*domain.ParkingFacility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*domain.ParkingFacility
	for _, snap := range s.facilities {
		facility, err := domain.FacilityFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		if center.DistanceTo(facility.Location()) <= radiusKm {
			matches = append(matches, facility)
		}
	}
	return matches, nil
}
