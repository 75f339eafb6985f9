package vehicle

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

// uniqueViolation is the Postgres error code raised by the plate uniqueness
// constraint.
const uniqueViolation = "23505"

// Postgres persists vehicles; the vehicles table carries a unique index on
// (plate_value, plate_region).
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Save(ctx context.Context, vehicle *domain.Vehicle, entries []outbox.Entry) error {
	snap := vehicle.Snapshot()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save vehicle: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicles (id, owner_id, plate_value, plate_region, vehicle_type, is_electric, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			vehicle_type = EXCLUDED.vehicle_type,
			is_electric = EXCLUDED.is_electric
	`, snap.ID, snap.OwnerID, snap.PlateValue, snap.PlateRegion, snap.Type, snap.IsElectric, snap.RegisteredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrConflict
		}
		return fmt.Errorf("upsert vehicle: %w", err)
	}

	if err := outbox.AppendTx(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save vehicle: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.VehicleID) (*domain.Vehicle, error) {
	snap, err := s.scanOne(ctx, `
		SELECT id, owner_id, plate_value, plate_region, vehicle_type, is_electric, registered_at
		FROM vehicles
		WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, err
	}
	return domain.VehicleFromSnapshot(snap)
}

func (s *Postgres) FindByOwner(ctx context.Context, ownerID domain.OwnerID) ([]*domain.Vehicle, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, plate_value, plate_region, vehicle_type, is_electric, registered_at
		FROM vehicles
		WHERE owner_id = $1
		ORDER BY registered_at
	`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("query vehicles by owner: %w", err)
	}
	defer rows.Close()

	var owned []*domain.Vehicle
	for rows.Next() {
		var snap domain.VehicleSnapshot
		if err := rows.Scan(&snap.ID, &snap.OwnerID, &snap.PlateValue, &snap.PlateRegion, &snap.Type, &snap.IsElectric, &snap.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicle, err := domain.VehicleFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		owned = append(owned, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}
	return owned, nil
}

func (s *Postgres) FindByPlate(ctx context.Context, plate domain.LicensePlate) (*domain.Vehicle, error) {
	snap, err := s.scanOne(ctx, `
		SELECT id, owner_id, plate_value, plate_region, vehicle_type, is_electric, registered_at
		FROM vehicles
		WHERE plate_value = $1 AND plate_region = $2
	`, plate.Value(), plate.Region())
	if err != nil {
		return nil, err
	}
	return domain.VehicleFromSnapshot(snap)
}

func (s *Postgres) scanOne(ctx context.Context, query string, args ...any) (domain.VehicleSnapshot, error) {
	var snap domain.VehicleSnapshot
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&snap.ID, &snap.OwnerID, &snap.PlateValue, &snap.PlateRegion, &snap.Type, &snap.IsElectric, &snap.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VehicleSnapshot{}, storage.ErrNotFound
		}
		return domain.VehicleSnapshot{}, fmt.Errorf("find vehicle: %w", err)
	}
	return snap, nil
}
