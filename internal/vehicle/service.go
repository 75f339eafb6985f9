package vehicle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/ident"
	"parkly/internal/platform/metrics"
	"parkly/internal/storage"
)

var tracer = otel.Tracer("parkly/vehicle")

// Service owns vehicle registration and the owner-facing vehicle queries.
type Service struct {
	store   Store
	ids     ident.Generator
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, ids ident.Generator, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("vehicle store is required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock is required")
	}
	return &Service{store: store, ids: ids, clock: clk, logger: logger, metrics: m}, nil
}

type RegisterVehicleInput struct {
	OwnerID     string
	PlateValue  string
	PlateRegion string
	VehicleType string
	IsElectric  bool
}

func (s *Service) RegisterVehicle(ctx context.Context, input RegisterVehicleInput) (domain.VehicleID, error) {
	ctx, span := tracer.Start(ctx, "vehicle.RegisterVehicle")
	defer span.End()

	ownerID, err := domain.ParseOwnerID(input.OwnerID)
	if err != nil {
		return "", err
	}
	plate, err := domain.NewLicensePlate(input.PlateValue, input.PlateRegion)
	if err != nil {
		return "", err
	}
	vehicleType, err := domain.ParseVehicleType(input.VehicleType)
	if err != nil {
		return "", err
	}

	vehicle, err := domain.NewVehicle(
		domain.VehicleID(s.ids.NewID()),
		ownerID,
		plate,
		vehicleType,
		input.IsElectric,
		s.clock.Now(),
	)
	if err != nil {
		return "", err
	}

	entries, err := outbox.FromEvents(vehicle.CollectEvents()...)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, vehicle, entries); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return "", &domain.DuplicatePlateError{Plate: plate}
		}
		return "", err
	}

	if s.metrics != nil {
		s.metrics.VehiclesRegistered.Inc()
	}
	s.logger.Info("vehicle registered",
		"vehicle_id", vehicle.ID().String(),
		"owner_id", input.OwnerID,
		"vehicle_type", input.VehicleType)
	return vehicle.ID(), nil
}

// GetVehicle returns the vehicle DTO.
func (s *Service) GetVehicle(ctx context.Context, rawID string) (domain.VehicleSnapshot, error) {
	ctx, span := tracer.Start(ctx, "vehicle.GetVehicle")
	defer span.End()

	vehicleID, err := domain.ParseVehicleID(rawID)
	if err != nil {
		return domain.VehicleSnapshot{}, err
	}
	vehicle, err := s.store.FindByID(ctx, vehicleID)
	if err != nil {
		return domain.VehicleSnapshot{}, err
	}
	return vehicle.Snapshot(), nil
}

// ListOwnerVehicles returns every vehicle registered to an owner.
func (s *Service) ListOwnerVehicles(ctx context.Context, rawOwnerID string) ([]domain.VehicleSnapshot, error) {
	ctx, span := tracer.Start(ctx, "vehicle.ListOwnerVehicles")
	defer span.End()

	ownerID, err := domain.ParseOwnerID(rawOwnerID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.VehicleSnapshot, 0, len(vehicles))
	for _, vehicle := range vehicles {
		snapshots = append(snapshots, vehicle.Snapshot())
	}
	return snapshots, nil
}
