package parking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// Postgres persists sessions. A partial unique index on spot_id where
// exit_time is null guarantees one active session per spot.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Save(ctx context.Context, session *domain.ParkingSession, entries []outbox.Entry) error {
	snap := session.Snapshot()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer tx.Rollback(ctx)

	var exitTime *time.Time
	if !snap.ExitTime.IsZero() {
		exitTime = &snap.ExitTime
	}
	var reservationID *string
	if snap.ReservationID != "" {
		reservationID = &snap.ReservationID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO parking_sessions (id, reservation_id, facility_id, spot_id, vehicle_id, entry_time, exit_time, cost_amount, cost_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			exit_time = EXCLUDED.exit_time,
			cost_amount = EXCLUDED.cost_amount
	`, snap.ID, reservationID, snap.FacilityID, snap.SpotID, snap.VehicleID, snap.EntryTime, exitTime, snap.CostAmount, snap.CostCurrency)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if err := outbox.AppendTx(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save session: %w", err)
	}
	return nil
}

const sessionColumns = `id, reservation_id, facility_id, spot_id, vehicle_id, entry_time, exit_time, cost_amount, cost_currency`

func (s *Postgres) FindByID(ctx context.Context, id domain.SessionID) (*domain.ParkingSession, error) {
	return s.scanOne(ctx, `
		SELECT `+sessionColumns+`
		FROM parking_sessions
		WHERE id = $1
	`, id.String())
}

func (s *Postgres) FindActiveBySpot(ctx context.Context, spotID domain.SpotID) (*domain.ParkingSession, error) {
	return s.scanOne(ctx, `
		SELECT `+sessionColumns+`
		FROM parking_sessions
		WHERE spot_id = $1 AND exit_time IS NULL
	`, spotID.String())
}

func (s *Postgres) FindByVehicle(ctx context.Context, vehicleID domain.VehicleID) ([]*domain.ParkingSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM parking_sessions
		WHERE vehicle_id = $1
		ORDER BY entry_time
	`, vehicleID.String())
	if err != nil {
		return nil, fmt.Errorf("query sessions by vehicle: %w", err)
	}
	defer rows.Close()

	var matches []*domain.ParkingSession
	for rows.Next() {
		snap, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		session, err := domain.SessionFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		matches = append(matches, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return matches, nil
}

func (s *Postgres) scanOne(ctx context.Context, query string, args ...any) (*domain.ParkingSession, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query session: %w", err)
		}
		return nil, storage.ErrNotFound
	}
	snap, err := scanSession(rows)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return domain.SessionFromSnapshot(snap)
}

func scanSession(rows pgx.Rows) (domain.SessionSnapshot, error) {
	var (
		snap          domain.SessionSnapshot
		reservationID sql.NullString
		exitTime      sql.NullTime
	)
	err := rows.Scan(&snap.ID, &reservationID, &snap.FacilityID, &snap.SpotID, &snap.VehicleID, &snap.EntryTime, &exitTime, &snap.CostAmount, &snap.CostCurrency)
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("scan session: %w", err)
	}
	if reservationID.Valid {
		snap.ReservationID = reservationID.String
	}
	if exitTime.Valid {
		snap.ExitTime = exitTime.Time
	}
	return snap, nil
}
