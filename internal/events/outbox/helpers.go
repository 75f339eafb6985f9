package outbox

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"parkly/internal/domain"
	"parkly/internal/events"
)

// FromEvents encodes drained aggregate events into outbox entries, ready to
// be persisted in the same transaction as the aggregate itself.
func FromEvents(evts ...domain.Event) ([]Entry, error) {
	if len(evts) == 0 {
		return nil, nil
	}
	entries := make([]Entry, 0, len(evts))
	for _, event := range evts {
		payload, err := events.Encode(event)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			EventName:   event.EventName(),
			AggregateID: event.AggregateID(),
			Payload:     payload,
			OccurredAt:  event.OccurredAt(),
		})
	}
	return entries, nil
}

// AppendTx inserts entries inside a caller-owned transaction. Module stores
// use this so aggregate row and outbox rows commit or roll back together.
func AppendTx(ctx context.Context, tx pgx.Tx, entries []Entry) error {
	for _, entry := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO event_outbox (event_name, aggregate_id, payload, occurred_at)
			VALUES ($1, $2, $3, $4)
		`, entry.EventName, entry.AggregateID, entry.Payload, entry.OccurredAt)
		if err != nil {
			return fmt.Errorf("append outbox entry %s: %w", entry.EventName, err)
		}
	}
	return nil
}
