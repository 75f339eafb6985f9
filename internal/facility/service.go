package facility

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/ident"
	"parkly/internal/platform/metrics"
)

var tracer = otel.Tracer("parkly/facility")

// Service owns the facility use cases: inventory commands plus the facility
// queries. All spot status mutation goes through the ParkingFacility
// aggregate; the service only orchestrates.
type Service struct {
	store   Store
	ids     ident.Generator
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, ids ident.Generator, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("facility store is required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock is required")
	}
	return &Service{store: store, ids: ids, clock: clk, logger: logger, metrics: m}, nil
}

// CreateFacilityInput carries raw command fields; validation happens in the
// domain constructors.
type CreateFacilityInput struct {
	Name          string
	FacilityType  string
	Latitude      float64
	Longitude     float64
	Address       string
	Capacity      int
	AccessControl string
}

func (s *Service) CreateFacility(ctx context.Context, input CreateFacilityInput) (domain.FacilityID, error) {
	ctx, span := tracer.Start(ctx, "facility.CreateFacility")
	defer span.End()

	name, err := domain.NewFacilityName(input.Name)
	if err != nil {
		return "", err
	}
	facilityType, err := domain.ParseFacilityType(input.FacilityType)
	if err != nil {
		return "", err
	}
	location, err := domain.NewLocation(input.Latitude, input.Longitude, input.Address)
	if err != nil {
		return "", err
	}
	capacity, err := domain.NewCapacity(input.Capacity)
	if err != nil {
		return "", err
	}
	accessControl, err := domain.ParseAccessControlMethod(input.AccessControl)
	if err != nil {
		return "", err
	}

	facility, err := domain.NewParkingFacility(
		domain.FacilityID(s.ids.NewID()),
		name,
		facilityType,
		location,
		capacity,
		accessControl,
		s.clock.Now(),
	)
	if err != nil {
		return "", err
	}

	if err := s.save(ctx, facility); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.FacilitiesCreated.Inc()
	}
	s.logger.Info("facility created",
		"facility_id", facility.ID().String(),
		"name", input.Name,
		"capacity", input.Capacity)
	return facility.ID(), nil
}

type AddSpotInput struct {
	FacilityID string
	SpotNumber string
	SpotType   string
	Floor      int
}

func (s *Service) AddSpot(ctx context.Context, input AddSpotInput) (domain.SpotID, error) {
	ctx, span := tracer.Start(ctx, "facility.AddSpot")
	defer span.End()

	facilityID, err := domain.ParseFacilityID(input.FacilityID)
	if err != nil {
		return "", err
	}
	number, err := domain.NewSpotNumber(input.SpotNumber)
	if err != nil {
		return "", err
	}
	spotType, err := domain.ParseSpotType(input.SpotType)
	if err != nil {
		return "", err
	}

	facility, err := s.store.FindByID(ctx, facilityID)
	if err != nil {
		return "", err
	}

	spot, err := domain.NewParkingSpot(domain.SpotID(s.ids.NewID()), number, spotType, input.Floor)
	if err != nil {
		return "", err
	}
	if err := facility.AddSpot(spot, s.clock.Now()); err != nil {
		return "", err
	}

	if err := s.save(ctx, facility); err != nil {
		return "", err
	}

	s.logger.Info("spot added",
		"facility_id", facilityID.String(),
		"spot_id", spot.ID().String(),
		"spot_type", input.SpotType)
	return spot.ID(), nil
}

type RemoveSpotInput struct {
	FacilityID string
	SpotID     string
}

func (s *Service) RemoveSpot(ctx context.Context, input RemoveSpotInput) error {
	ctx, span := tracer.Start(ctx, "facility.RemoveSpot")
	defer span.End()

	facilityID, err := domain.ParseFacilityID(input.FacilityID)
	if err != nil {
		return err
	}
	spotID, err := domain.ParseSpotID(input.SpotID)
	if err != nil {
		return err
	}

	facility, err := s.store.FindByID(ctx, facilityID)
	if err != nil {
		return err
	}
	if err := facility.RemoveSpot(spotID, s.clock.Now()); err != nil {
		return err
	}

	if err := s.save(ctx, facility); err != nil {
		return err
	}

	s.logger.Info("spot removed",
		"facility_id", facilityID.String(),
		"spot_id", spotID.String())
	return nil
}

// GetFacility returns the facility DTO.
func (s *Service) GetFacility(ctx context.Context, rawID string) (domain.FacilitySnapshot, error) {
	ctx, span := tracer.Start(ctx, "facility.GetFacility")
	defer span.End()

	facilityID, err := domain.ParseFacilityID(rawID)
	if err != nil {
		return domain.FacilitySnapshot{}, err
	}
	facility, err := s.store.FindByID(ctx, facilityID)
	if err != nil {
		return domain.FacilitySnapshot{}, err
	}
	return facility.Snapshot(), nil
}

type FindAvailableSpotsInput struct {
	FacilityID string
	SlotStart  time.Time
	SlotEnd    time.Time
	SpotType   string
}

// FindAvailableSpots lists spots currently available in a facility. The time
// slot is validated but availability is judged by spot status alone; slot
// level conflicts surface when the reservation is created.
func (s *Service) FindAvailableSpots(ctx context.Context, input FindAvailableSpotsInput) ([]domain.SpotSnapshot, error) {
	ctx, span := tracer.Start(ctx, "facility.FindAvailableSpots")
	defer span.End()

	facilityID, err := domain.ParseFacilityID(input.FacilityID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.NewTimeSlot(input.SlotStart, input.SlotEnd); err != nil {
		return nil, err
	}
	var spotType *domain.SpotType
	if input.SpotType != "" {
		parsed, err := domain.ParseSpotType(input.SpotType)
		if err != nil {
			return nil, err
		}
		spotType = &parsed
	}

	facility, err := s.store.FindByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	available := facility.AvailableSpots(spotType)
	snapshots := make([]domain.SpotSnapshot, 0, len(available))
	for _, spot := range available {
		snapshots = append(snapshots, domain.SpotSnapshot{
			ID:     spot.ID().String(),
			Number: spot.Number().String(),
			Type:   string(spot.Type()),
			Status: string(spot.Status()),
			Floor:  spot.Floor(),
		})
	}
	return snapshots, nil
}

type FindByLocationInput struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

func (s *Service) FindByLocation(ctx context.Context, input FindByLocationInput) ([]domain.FacilitySnapshot, error) {
	ctx, span := tracer.Start(ctx, "facility.FindByLocation")
	defer span.End()

	// The search center has no street address; bypass Location's address
	// requirement with a placeholder that never leaves this query.
	center, err := domain.NewLocation(input.Latitude, input.Longitude, "search-center")
	if err != nil {
		return nil, err
	}
	if input.RadiusKm <= 0 {
		return nil, domain.ErrNonPositiveRadius
	}

	facilities, err := s.store.FindByLocation(ctx, center, input.RadiusKm)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.FacilitySnapshot, 0, len(facilities))
	for _, facility := range facilities {
		snapshots = append(snapshots, facility.Snapshot())
	}
	return snapshots, nil
}

func (s *Service) save(ctx context.Context, facility *domain.ParkingFacility) error {
	entries, err := outbox.FromEvents(facility.CollectEvents()...)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, facility, entries)
}
