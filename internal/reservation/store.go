package reservation

import (
	"context"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
)

// Store persists Reservation aggregates. Save enforces the no-double-booking
// rule at the storage boundary: a non-terminal reservation whose slot
// overlaps another non-terminal reservation on the same spot is rejected
// with storage.ErrConflict. Putting the check here, under the store's lock
// or constraint, closes the race between the service's overlap check and
// the insert.
type Store interface {
	Save(ctx context.Context, reservation *domain.Reservation, entries []outbox.Entry) error
	FindByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error)
	FindBySpotAndTime(ctx context.Context, spotID domain.SpotID, slot domain.TimeSlot) ([]*domain.Reservation, error)
	FindByVehicle(ctx context.Context, vehicleID domain.VehicleID) ([]*domain.Reservation, error)
}
