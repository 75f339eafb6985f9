package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists outbox entries in the event_outbox table. Appends ride
// on the pool's implicit transaction per batch; ids come from a bigserial so
// dispatch order follows insertion order.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Append(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(`
			INSERT INTO event_outbox (event_name, aggregate_id, payload, occurred_at)
			VALUES ($1, $2, $3, $4)
		`, entry.EventName, entry.AggregateID, entry.Payload, entry.OccurredAt)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("append outbox entries: %w", err)
	}
	return nil
}

func (s *Postgres) PendingBatch(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_name, aggregate_id, payload, occurred_at
		FROM event_outbox
		WHERE dispatched_at IS NULL
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox entries: %w", err)
	}
	defer rows.Close()

	var pending []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.EventName, &entry.AggregateID, &entry.Payload, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		pending = append(pending, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return pending, nil
}

func (s *Postgres) MarkDispatched(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE event_outbox
		SET dispatched_at = $2
		WHERE id = ANY($1)
	`, ids, at)
	if err != nil {
		return fmt.Errorf("mark outbox entries dispatched: %w", err)
	}
	return nil
}
