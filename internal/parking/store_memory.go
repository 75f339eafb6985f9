package parking

import (
	"context"
	"sync"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// InMemory is the dev and test session store. The active-session re-check
// on Save runs inside the mutex, so two racing saves for the same spot
// cannot both hold it open.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]domain.SessionSnapshot
	outbox   outbox.Store
}

func NewInMemory(outboxStore outbox.Store) *InMemory {
	return &InMemory{
		sessions: make(map[domain.SessionID]domain.SessionSnapshot),
		outbox:   outboxStore,
	}
}

func (s *InMemory) Save(ctx context.Context, session *domain.ParkingSession, entries []outbox.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.IsActive() {
		for _, snap := range s.sessions {
			if snap.ID == session.ID().String() || snap.SpotID != session.SpotID().String() {
				continue
			}
			if snap.ExitTime.IsZero() {
				return storage.ErrConflict
			}
		}
	}

	s.sessions[session.ID()] = session.Snapshot()
	if len(entries) == 0 {
		return nil
	}
	return s.outbox.Append(ctx, entries...)
}

func (s *InMemory) FindByID(_ context.Context, id domain.SessionID) (*domain.ParkingSession, error) {
	s.mu.RLock()
	snap, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return domain.SessionFromSnapshot(snap)
}

func (s *InMemory) FindActiveBySpot(_ context.Context, spotID domain.SpotID) (*domain.ParkingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.sessions {
		if snap.SpotID != spotID.String() || !snap.ExitTime.IsZero() {
			continue
		}
		return domain.SessionFromSnapshot(snap)
	}
	return nil, storage.ErrNotFound
}

func (s *InMemory) FindByVehicle(_ context.Context, vehicleID domain.VehicleID) ([]*domain.ParkingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*domain.ParkingSession
	for _, snap := range s.sessions {
		if snap.VehicleID != vehicleID.String() {
			continue
		}
		session, err := domain.SessionFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		matches = append(matches, session)
	}
	return matches, nil
}
