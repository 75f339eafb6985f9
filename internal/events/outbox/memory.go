package outbox

import (
	"context"
	"sync"
	"time"
)

// InMemory is the dev and test outbox store.
type InMemory struct {
	mu      sync.Mutex
	nextID  int64
	entries []Entry
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		s.nextID++
		entry.ID = s.nextID
		s.entries = append(s.entries, entry)
	}
	return nil
}

func (s *InMemory) PendingBatch(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []Entry
	for _, entry := range s.entries {
		if !entry.DispatchedAt.IsZero() {
			continue
		}
		pending = append(pending, entry)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *InMemory) MarkDispatched(_ context.Context, ids []int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	marked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}
	for i := range s.entries {
		if _, ok := marked[s.entries[i].ID]; ok {
			s.entries[i].DispatchedAt = at
		}
	}
	return nil
}
