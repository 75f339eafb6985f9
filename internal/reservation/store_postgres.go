package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// Postgres error codes surfaced by the reservations table constraints: the
// btree_gist exclusion constraint on (spot_id, slot range) raises 23P01.
const (
	uniqueViolation    = "23505"
	exclusionViolation = "23P01"
)

// Postgres persists reservations. Double-booking is prevented by an
// exclusion constraint over non-terminal rows, so the no-overlap invariant
// holds even across concurrent transactions.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Save(ctx context.Context, reservation *domain.Reservation, entries []outbox.Entry) error {
	snap := reservation.Snapshot()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (id, facility_id, spot_id, vehicle_id, slot_start, slot_end, status, cost_amount, cost_currency, cancel_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			slot_start = EXCLUDED.slot_start,
			slot_end = EXCLUDED.slot_end,
			status = EXCLUDED.status,
			cancel_reason = EXCLUDED.cancel_reason
	`, snap.ID, snap.FacilityID, snap.SpotID, snap.VehicleID, snap.SlotStart, snap.SlotEnd, snap.Status, snap.CostAmount, snap.CostCurrency, snap.CancelReason, snap.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == exclusionViolation || pgErr.Code == uniqueViolation) {
			return storage.ErrConflict
		}
		return fmt.Errorf("upsert reservation: %w", err)
	}

	if err := outbox.AppendTx(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save reservation: %w", err)
	}
	return nil
}

const reservationColumns = `id, facility_id, spot_id, vehicle_id, slot_start, slot_end, status, cost_amount, cost_currency, cancel_reason, created_at`

func (s *Postgres) FindByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error) {
	var snap domain.ReservationSnapshot
	err := s.pool.QueryRow(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE id = $1
	`, id.String()).Scan(&snap.ID, &snap.FacilityID, &snap.SpotID, &snap.VehicleID, &snap.SlotStart, &snap.SlotEnd, &snap.Status, &snap.CostAmount, &snap.CostCurrency, &snap.CancelReason, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find reservation %s: %w", id, err)
	}
	return domain.ReservationFromSnapshot(snap)
}

func (s *Postgres) FindBySpotAndTime(ctx context.Context, spotID domain.SpotID, slot domain.TimeSlot) ([]*domain.Reservation, error) {
	return s.list(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE spot_id = $1 AND slot_start < $3 AND $2 < slot_end
	`, spotID.String(), slot.Start(), slot.End())
}

func (s *Postgres) FindByVehicle(ctx context.Context, vehicleID domain.VehicleID) ([]*domain.Reservation, error) {
	return s.list(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE vehicle_id = $1
		ORDER BY created_at
	`, vehicleID.String())
}

func (s *Postgres) list(ctx context.Context, query string, args ...any) ([]*domain.Reservation, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var matches []*domain.Reservation
	for rows.Next() {
		var snap domain.ReservationSnapshot
		if err := rows.Scan(&snap.ID, &snap.FacilityID, &snap.SpotID, &snap.VehicleID, &snap.SlotStart, &snap.SlotEnd, &snap.Status, &snap.CostAmount, &snap.CostCurrency, &snap.CancelReason, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservation, err := domain.ReservationFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		matches = append(matches, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return matches, nil
}
