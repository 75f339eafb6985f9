package vehicle

import (
	"context"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
)

// Store persists Vehicle aggregates. Save enforces system-wide license
// plate uniqueness and returns storage.ErrConflict when another vehicle
// already carries the plate.
type Store interface {
	Save(ctx context.Context, vehicle *domain.Vehicle, entries []outbox.Entry) error
	FindByID(ctx context.Context, id domain.VehicleID) (*domain.Vehicle, error)
	FindByOwner(ctx context.Context, ownerID domain.OwnerID) ([]*domain.Vehicle, error)
	FindByPlate(ctx context.Context, plate domain.LicensePlate) (*domain.Vehicle, error)
}
