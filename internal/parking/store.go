package parking

import (
	"context"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
)

// Store persists ParkingSession aggregates.
type Store interface {
	Save(ctx context.Context, session *domain.ParkingSession, entries []outbox.Entry) error
	FindByID(ctx context.Context, id domain.SessionID) (*domain.ParkingSession, error)
	// FindActiveBySpot returns the session currently occupying the spot, or
	// storage.ErrNotFound when the spot is free. A spot holds at most one
	// active session.
	FindActiveBySpot(ctx context.Context, spotID domain.SpotID) (*domain.ParkingSession, error)
	FindByVehicle(ctx context.Context, vehicleID domain.VehicleID) ([]*domain.ParkingSession, error)
}
