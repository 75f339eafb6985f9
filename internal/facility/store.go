package facility

import (
	"context"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
)

// Store persists ParkingFacility aggregates. Save writes the aggregate and
// its outbox entries atomically (one transaction for Postgres, one critical
// section for the in-memory store).
type Store interface {
	Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error
	FindByID(ctx context.Context, id domain.FacilityID) (*domain.ParkingFacility, error)
	FindByLocation(ctx context.Context, center domain.Location, radiusKm float64) ([]*domain.ParkingFacility, error)
}
