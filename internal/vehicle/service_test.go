package vehicle

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/ident"
	"parkly/internal/storage"
)

type ServiceSuite struct {
	suite.Suite

	ctx   context.Context
	store *InMemory
	svc   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory(outbox.NewInMemory())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, err := NewService(s.store, ident.NewSequence("veh"), clock.NewFixed(now), logger, nil)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) registerInput() RegisterVehicleInput {
	return RegisterVehicleInput{
		OwnerID:     "owner-1",
		PlateValue:  "7ABC123",
		PlateRegion: "CA",
		VehicleType: "car",
	}
}

func (s *ServiceSuite) TestRegisterVehicle() {
	s.Run("persists the vehicle", func() {
		id, err := s.svc.RegisterVehicle(s.ctx, s.registerInput())
		s.Require().NoError(err)

		snap, err := s.svc.GetVehicle(s.ctx, id.String())
		s.Require().NoError(err)
		s.Equal("7ABC123", snap.PlateValue)
		s.Equal("CA", snap.PlateRegion)
		s.Equal("car", snap.Type)
		s.False(snap.IsElectric)
	})

	s.Run("rejects a duplicate plate", func() {
		input := s.registerInput()
		input.OwnerID = "owner-2"

		_, err := s.svc.RegisterVehicle(s.ctx, input)
		var duplicate *domain.DuplicatePlateError
		s.Require().ErrorAs(err, &duplicate)
		s.Equal("7ABC123", duplicate.Plate.Value())
	})

	s.Run("the same plate in another region is distinct", func() {
		input := s.registerInput()
		input.PlateRegion = "NV"

		_, err := s.svc.RegisterVehicle(s.ctx, input)
		s.Require().NoError(err)
	})

	s.Run("rejects an unknown vehicle type", func() {
		input := s.registerInput()
		input.PlateValue = "8XYZ999"
		input.VehicleType = "scooter"

		_, err := s.svc.RegisterVehicle(s.ctx, input)
		kind, ok := domain.KindOf(err)
		s.Require().True(ok)
		s.Equal(domain.KindValidation, kind)
	})

	s.Run("rejects an empty plate", func() {
		input := s.registerInput()
		input.PlateValue = "  "

		_, err := s.svc.RegisterVehicle(s.ctx, input)
		s.Require().ErrorIs(err, domain.ErrEmptyPlateValue)
	})
}

func (s *ServiceSuite) TestListOwnerVehicles() {
	first, err := s.svc.RegisterVehicle(s.ctx, s.registerInput())
	s.Require().NoError(err)

	input := s.registerInput()
	input.PlateValue = "8XYZ999"
	input.VehicleType = "motorcycle"
	second, err := s.svc.RegisterVehicle(s.ctx, input)
	s.Require().NoError(err)

	other := s.registerInput()
	other.OwnerID = "owner-2"
	other.PlateValue = "9QQQ111"
	_, err = s.svc.RegisterVehicle(s.ctx, other)
	s.Require().NoError(err)

	listed, err := s.svc.ListOwnerVehicles(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Len(listed, 2)
	s.ElementsMatch(
		[]string{listed[0].ID, listed[1].ID},
		[]string{first.String(), second.String()},
	)
}

func (s *ServiceSuite) TestGetVehicleMissing() {
	_, err := s.svc.GetVehicle(s.ctx, "veh-missing")
	s.Require().ErrorIs(err, storage.ErrNotFound)
}
