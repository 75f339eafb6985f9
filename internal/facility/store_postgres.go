package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// Postgres persists facilities across parking_facilities and parking_spots.
// Spots are replaced wholesale on save; the aggregate is small enough that
// diffing rows buys nothing.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error {
	snap := facility.Snapshot()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save facility: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO parking_facilities (id, name, facility_type, latitude, longitude, address, capacity, access_control, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			facility_type = EXCLUDED.facility_type,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			address = EXCLUDED.address,
			capacity = EXCLUDED.capacity,
			access_control = EXCLUDED.access_control
	`, snap.ID, snap.Name, snap.Type, snap.Latitude, snap.Longitude, snap.Address, snap.Capacity, snap.AccessControl, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert facility: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM parking_spots WHERE facility_id = $1`, snap.ID); err != nil {
		return fmt.Errorf("clear facility spots: %w", err)
	}
	for _, spot := range snap.Spots {
		_, err := tx.Exec(ctx, `
			INSERT INTO parking_spots (id, facility_id, spot_number, spot_type, status, floor)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, spot.ID, snap.ID, spot.Number, spot.Type, spot.Status, spot.Floor)
		if err != nil {
			return fmt.Errorf("insert spot %s: %w", spot.ID, err)
		}
	}

	if err := outbox.AppendTx(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save facility: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.FacilityID) (*domain.ParkingFacility, error) {
	var snap domain.FacilitySnapshot
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, facility_type, latitude, longitude, address, capacity, access_control, created_at
		FROM parking_facilities
		WHERE id = $1
	`, id.String()).Scan(&snap.ID, &snap.Name, &snap.Type, &snap.Latitude, &snap.Longitude, &snap.Address, &snap.Capacity, &snap.AccessControl, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find facility %s: %w", id, err)
	}

	spots, err := s.loadSpots(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	snap.Spots = spots
	return domain.FacilityFromSnapshot(snap)
}

func (s *Postgres) FindByLocation(ctx context.Context, center domain.Location, radiusKm float64) ([]*domain.ParkingFacility, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, facility_type, latitude, longitude, address, capacity, access_control, created_at
		FROM parking_facilities
	`)
	if err != nil {
		return nil, fmt.Errorf("query facilities: %w", err)
	}
	defer rows.Close()

	var snaps []domain.FacilitySnapshot
	for rows.Next() {
		var snap domain.FacilitySnapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Type, &snap.Latitude, &snap.Longitude, &snap.Address, &snap.Capacity, &snap.AccessControl, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facilities: %w", err)
	}

	var matches []*domain.ParkingFacility
	for _, snap := range snaps {
		location, err := domain.NewLocation(snap.Latitude, snap.Longitude, snap.Address)
		if err != nil {
			return nil, err
		}
		if center.DistanceTo(location) > radiusKm {
			continue
		}
		spots, err := s.loadSpots(ctx, snap.ID)
		if err != nil {
			return nil, err
		}
		snap.Spots = spots
		facility, err := domain.FacilityFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		matches = append(matches, facility)
	}
	return matches, nil
}

func (s *Postgres) loadSpots(ctx context.Context, facilityID string) ([]domain.SpotSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, spot_number, spot_type, status, floor
		FROM parking_spots
		WHERE facility_id = $1
		ORDER BY id
	`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("query spots for %s: %w", facilityID, err)
	}
	defer rows.Close()

	var spots []domain.SpotSnapshot
	for rows.Next() {
		var spot domain.SpotSnapshot
		if err := rows.Scan(&spot.ID, &spot.Number, &spot.Type, &spot.Status, &spot.Floor); err != nil {
			return nil, fmt.Errorf("scan spot: %w", err)
		}
		spots = append(spots, spot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spots: %w", err)
	}
	return spots, nil
}
