package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/ident"
	"parkly/internal/platform/metrics"
	"parkly/internal/pricing"
	"parkly/internal/storage"
)

var tracer = otel.Tracer("parkly/reservation")

// FacilityStore is the slice of the facility module this service consumes.
type FacilityStore interface {
	FindByID(ctx context.Context, id domain.FacilityID) (*domain.ParkingFacility, error)
	Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error
}

// VehicleStore is the slice of the vehicle module this service consumes.
type VehicleStore interface {
	FindByID(ctx context.Context, id domain.VehicleID) (*domain.Vehicle, error)
}

// Service owns the reservation lifecycle. Creating a reservation checks
// vehicle eligibility, rejects overlapping bookings on the spot, prices the
// slot, and reserves the spot before the reservation row is written.
type Service struct {
	store      Store
	facilities FacilityStore
	vehicles   VehicleStore
	strategy   pricing.Strategy
	baseRate   domain.Money
	ids        ident.Generator
	clock      clock.Clock
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(
	store Store,
	facilities FacilityStore,
	vehicles VehicleStore,
	strategy pricing.Strategy,
	baseRate domain.Money,
	ids ident.Generator,
	clk clock.Clock,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("reservation store is required")
	}
	if facilities == nil {
		return nil, fmt.Errorf("facility store is required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle store is required")
	}
	if strategy == nil {
		return nil, fmt.Errorf("pricing strategy is required")
	}
	if baseRate.IsZero() {
		return nil, fmt.Errorf("base rate is required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock is required")
	}
	return &Service{
		store:      store,
		facilities: facilities,
		vehicles:   vehicles,
		strategy:   strategy,
		baseRate:   baseRate,
		ids:        ids,
		clock:      clk,
		logger:     logger,
		metrics:    m,
	}, nil
}

type CreateReservationInput struct {
	FacilityID string
	SpotID     string
	VehicleID  string
	StartTime  time.Time
	EndTime    time.Time
}

// CreateReservation books a spot for a vehicle over a time slot. The spot is
// reserved on the facility before the reservation is written; if the store
// then reports an overlap conflict the spot reservation is rolled back.
func (s *Service) CreateReservation(ctx context.Context, input CreateReservationInput) (domain.ReservationID, error) {
	ctx, span := tracer.Start(ctx, "reservation.CreateReservation")
	defer span.End()

	facilityID, err := domain.ParseFacilityID(input.FacilityID)
	if err != nil {
		return "", err
	}
	spotID, err := domain.ParseSpotID(input.SpotID)
	if err != nil {
		return "", err
	}
	vehicleID, err := domain.ParseVehicleID(input.VehicleID)
	if err != nil {
		return "", err
	}
	slot, err := domain.NewTimeSlot(input.StartTime, input.EndTime)
	if err != nil {
		return "", err
	}

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", &domain.NotFoundError{Entity: "vehicle", ID: vehicleID.String()}
		}
		return "", err
	}
	facility, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", &domain.NotFoundError{Entity: "facility", ID: facilityID.String()}
		}
		return "", err
	}
	spot, err := facility.Spot(spotID)
	if err != nil {
		return "", err
	}
	if err := vehicle.EnsureEligible(spot.Type()); err != nil {
		return "", err
	}

	overlapping, err := s.store.FindBySpotAndTime(ctx, spotID, slot)
	if err != nil {
		return "", err
	}
	for _, other := range overlapping {
		if !other.Status().IsTerminal() {
			return "", &domain.SpotAlreadyReservedError{SpotID: spotID}
		}
	}

	cost, err := s.strategy.Calculate(slot, s.baseRate)
	if err != nil {
		return "", err
	}

	if err := facility.ReserveSpot(spotID); err != nil {
		return "", err
	}
	if err := s.saveFacility(ctx, facility); err != nil {
		return "", err
	}

	reservation, err := domain.NewReservation(
		domain.ReservationID(s.ids.NewID()),
		facilityID,
		spotID,
		vehicleID,
		slot,
		cost,
		s.clock.Now(),
	)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, reservation); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			s.releaseSpot(ctx, facility, spotID)
			return "", &domain.SpotAlreadyReservedError{SpotID: spotID}
		}
		return "", err
	}

	if s.metrics != nil {
		s.metrics.ReservationsCreated.Inc()
	}
	s.logger.Info("reservation created",
		"reservation_id", reservation.ID().String(),
		"facility_id", input.FacilityID,
		"spot_id", input.SpotID,
		"vehicle_id", input.VehicleID,
		"cost", cost.String())
	return reservation.ID(), nil
}

// ConfirmReservation moves a pending reservation to confirmed.
func (s *Service) ConfirmReservation(ctx context.Context, rawID string) error {
	ctx, span := tracer.Start(ctx, "reservation.ConfirmReservation")
	defer span.End()

	return s.mutate(ctx, rawID, func(r *domain.Reservation) error {
		return r.Confirm(s.clock.Now())
	})
}

// ActivateReservation marks the parker as arrived.
func (s *Service) ActivateReservation(ctx context.Context, rawID string) error {
	ctx, span := tracer.Start(ctx, "reservation.ActivateReservation")
	defer span.End()

	return s.mutate(ctx, rawID, func(r *domain.Reservation) error {
		return r.Activate(s.clock.Now())
	})
}

// CompleteReservation closes an active reservation.
func (s *Service) CompleteReservation(ctx context.Context, rawID string) error {
	ctx, span := tracer.Start(ctx, "reservation.CompleteReservation")
	defer span.End()

	return s.mutate(ctx, rawID, func(r *domain.Reservation) error {
		return r.Complete(s.clock.Now())
	})
}

// CancelReservation aborts a reservation with a reason. The recorded
// cancellation event releases the spot asynchronously.
func (s *Service) CancelReservation(ctx context.Context, rawID, reason string) error {
	ctx, span := tracer.Start(ctx, "reservation.CancelReservation")
	defer span.End()

	err := s.mutate(ctx, rawID, func(r *domain.Reservation) error {
		return r.Cancel(reason, s.clock.Now())
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ReservationsCancelled.Inc()
	}
	s.logger.Info("reservation cancelled", "reservation_id", rawID, "reason", reason)
	return nil
}

// ExtendReservation pushes the slot end of a confirmed or active reservation
// later. The cost quoted at creation stands.
func (s *Service) ExtendReservation(ctx context.Context, rawID string, newEnd time.Time) error {
	ctx, span := tracer.Start(ctx, "reservation.ExtendReservation")
	defer span.End()

	return s.mutate(ctx, rawID, func(r *domain.Reservation) error {
		return r.Extend(newEnd)
	})
}

// GetReservation returns the reservation DTO.
func (s *Service) GetReservation(ctx context.Context, rawID string) (domain.ReservationSnapshot, error) {
	ctx, span := tracer.Start(ctx, "reservation.GetReservation")
	defer span.End()

	id, err := domain.ParseReservationID(rawID)
	if err != nil {
		return domain.ReservationSnapshot{}, err
	}
	reservation, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.ReservationSnapshot{}, err
	}
	return reservation.Snapshot(), nil
}

// ListVehicleReservations returns every reservation held by a vehicle.
func (s *Service) ListVehicleReservations(ctx context.Context, rawVehicleID string) ([]domain.ReservationSnapshot, error) {
	ctx, span := tracer.Start(ctx, "reservation.ListVehicleReservations")
	defer span.End()

	vehicleID, err := domain.ParseVehicleID(rawVehicleID)
	if err != nil {
		return nil, err
	}
	reservations, err := s.store.FindByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.ReservationSnapshot, 0, len(reservations))
	for _, r := range reservations {
		snapshots = append(snapshots, r.Snapshot())
	}
	return snapshots, nil
}

func (s *Service) mutate(ctx context.Context, rawID string, fn func(*domain.Reservation) error) error {
	id, err := domain.ParseReservationID(rawID)
	if err != nil {
		return err
	}
	reservation, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(reservation); err != nil {
		return err
	}
	return s.save(ctx, reservation)
}

func (s *Service) save(ctx context.Context, reservation *domain.Reservation) error {
	entries, err := outbox.FromEvents(reservation.CollectEvents()...)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, reservation, entries)
}

func (s *Service) saveFacility(ctx context.Context, facility *domain.ParkingFacility) error {
	entries, err := outbox.FromEvents(facility.CollectEvents()...)
	if err != nil {
		return err
	}
	return s.facilities.Save(ctx, facility, entries)
}

// releaseSpot compensates a spot reservation after the store rejected the
// reservation row. Failure here leaves the spot reserved until the next
// cancellation reaction, so it is logged rather than returned.
func (s *Service) releaseSpot(ctx context.Context, facility *domain.ParkingFacility, spotID domain.SpotID) {
	if err := facility.ReleaseSpot(spotID); err != nil {
		s.logger.Warn("release spot after conflict failed", "spot_id", spotID.String(), "error", err)
		return
	}
	if err := s.saveFacility(ctx, facility); err != nil {
		s.logger.Warn("save facility after conflict failed", "facility_id", facility.ID().String(), "error", err)
	}
}
