package parking

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

var tracer = otel.Tracer("parkly/parking")

// FacilityStore is the slice of the facility module this service consumes.
type FacilityStore interface {
	FindByID(ctx context.Context, id domain.FacilityID) (*domain.ParkingFacility, error)
	Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error
}

// VehicleStore is the slice of the vehicle module this service consumes.
type VehicleStore interface {
	FindByID(ctx context.Context, id domain.VehicleID) (*domain.Vehicle, error)
}

// Service owns the parking session lifecycle: entry, running-cost extension
// and exit billing. Spot release and reservation completion after exit run
// asynchronously off the SessionEnded event.
type Service struct {
	store      Store
	facilities FacilityStore
	vehicles   VehicleStore
	strategy   pricing.Strategy
	hourlyRate domain.Money
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
	hourlyRate domain.Money,
	ids ident.Generator,
	clk clock.Clock,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
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
	if hourlyRate.IsZero() {
		return nil, fmt.Errorf("hourly rate is required")
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
		hourlyRate: hourlyRate,
		ids:        ids,
		clock:      clk,
		logger:     logger,
		metrics:    m,
	}, nil
}

type StartSessionInput struct {
	FacilityID    string
	SpotID        string
	VehicleID     string
	ReservationID string
}

// StartSession records vehicle entry. The spot must not already carry an
// active session; it is occupied on the facility before the session row is
// written. The session opens at a zero cost in the facility's billing
// currency.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (domain.SessionID, error) {
	ctx, span := tracer.Start(ctx, "parking.StartSession")
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
	var reservationID domain.ReservationID
	if input.ReservationID != "" {
		reservationID, err = domain.ParseReservationID(input.ReservationID)
		if err != nil {
			return "", err
		}
	}

	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
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

	if _, err := s.store.FindActiveBySpot(ctx, spotID); err == nil {
		return "", &domain.SpotAlreadyOccupiedError{SpotID: spotID}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	if err := facility.OccupySpot(spotID); err != nil {
		return "", err
	}
	if err := s.saveFacility(ctx, facility); err != nil {
		return "", err
	}

	initialCost, err := domain.ZeroMoney(s.hourlyRate.Currency())
	if err != nil {
		return "", err
	}
	session, err := domain.NewParkingSession(
		domain.SessionID(s.ids.NewID()),
		facilityID,
		spotID,
		vehicleID,
		reservationID,
		s.clock.Now(),
		initialCost,
	)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, session); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	s.logger.Info("parking session started",
		"session_id", session.ID().String(),
		"facility_id", input.FacilityID,
		"spot_id", input.SpotID,
		"vehicle_id", input.VehicleID)
	return session.ID(), nil
}

// ExtendSession reprices an active session up to the new expected end and
// replaces its running total. Entry and exit times are untouched.
func (s *Service) ExtendSession(ctx context.Context, rawID string, newEnd time.Time) error {
	ctx, span := tracer.Start(ctx, "parking.ExtendSession")
	defer span.End()

	id, err := domain.ParseSessionID(rawID)
	if err != nil {
		return err
	}
	session, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	slot, err := domain.NewTimeSlot(session.EntryTime(), newEnd)
	if err != nil {
		return err
	}
	newTotal, err := s.strategy.Calculate(slot, s.hourlyRate)
	if err != nil {
		return err
	}
	if err := session.Extend(newEnd, newTotal, s.clock.Now()); err != nil {
		return err
	}
	return s.save(ctx, session)
}

// EndSession records vehicle exit and bills elapsed time at the hourly rate.
// The recorded SessionEnded event releases the spot and completes a linked
// reservation asynchronously.
func (s *Service) EndSession(ctx context.Context, rawID string) (domain.Money, error) {
	ctx, span := tracer.Start(ctx, "parking.EndSession")
	defer span.End()

	id, err := domain.ParseSessionID(rawID)
	if err != nil {
		return domain.Money{}, err
	}
	session, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Money{}, err
	}

	now := s.clock.Now()
	total, err := session.CalculateCost(s.hourlyRate, now)
	if err != nil {
		return domain.Money{}, err
	}
	if err := session.End(total, now); err != nil {
		return domain.Money{}, err
	}
	if err := s.save(ctx, session); err != nil {
		return domain.Money{}, err
	}

	if s.metrics != nil {
		s.metrics.SessionsEnded.Inc()
	}
	s.logger.Info("parking session ended",
		"session_id", rawID,
		"total_cost", total.String())
	return total, nil
}

// GetSession returns the session DTO.
func (s *Service) GetSession(ctx context.Context, rawID string) (domain.SessionSnapshot, error) {
	ctx, span := tracer.Start(ctx, "parking.GetSession")
	defer span.End()

	id, err := domain.ParseSessionID(rawID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	session, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// ListVehicleSessions returns every session recorded for a vehicle.
func (s *Service) ListVehicleSessions(ctx context.Context, rawVehicleID string) ([]domain.SessionSnapshot, error) {
	ctx, span := tracer.Start(ctx, "parking.ListVehicleSessions")
	defer span.End()

	vehicleID, err := domain.ParseVehicleID(rawVehicleID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.FindByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.SessionSnapshot, 0, len(sessions))
	for _, session := range sessions {
		snapshots = append(snapshots, session.Snapshot())
	}
	return snapshots, nil
}

func (s *Service) save(ctx context.Context, session *domain.ParkingSession) error {
	entries, err := outbox.FromEvents(session.CollectEvents()...)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, session, entries)
}

func (s *Service) saveFacility(ctx context.Context, facility *domain.ParkingFacility) error {
	entries, err := outbox.FromEvents(facility.CollectEvents()...)
	if err != nil {
		return err
	}
	return s.facilities.Save(ctx, facility, entries)
}
