package outbox

import (
	"context"
	"time"

	"parkly/internal/domain"
)

// Entry is one persisted, not-yet-dispatched domain event. Entries are
// appended in the same transaction (or critical section) as the aggregate
// mutation that produced them, then drained asynchronously, so a crash
// between save and publish can no longer orphan a reserved spot.
type Entry struct {
	ID           int64
	EventName    string
	AggregateID  string
	Payload      []byte
	OccurredAt   time.Time
	DispatchedAt time.Time
}

// Store persists outbox entries. Append assigns ids in insertion order so
// PendingBatch returns entries in publication order.
type Store interface {
	Append(ctx context.Context, entries ...Entry) error
	PendingBatch(ctx context.Context, limit int) ([]Entry, error)
	MarkDispatched(ctx context.Context, ids []int64, at time.Time) error
}

// Publisher implements events.Publisher by appending to the outbox instead
// of dispatching inline.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Publish(ctx context.Context, evts ...domain.Event) error {
	entries, err := FromEvents(evts...)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return p.store.Append(ctx, entries...)
}
