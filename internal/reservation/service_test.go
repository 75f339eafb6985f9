package reservation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/facility"
	"parkly/internal/ident"
	"parkly/internal/pricing"
	"parkly/internal/vehicle"
)

type ServiceSuite struct {
	suite.Suite

	ctx        context.Context
	now        time.Time
	store      *InMemory
	facilities *facility.InMemory
	vehicles   *vehicle.InMemory
	svc        *Service

	facilityID domain.FacilityID
	spotID     domain.SpotID
	vehicleID  domain.VehicleID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	outboxStore := outbox.NewInMemory()
	s.store = NewInMemory(outboxStore)
	s.facilities = facility.NewInMemory(outboxStore)
	s.vehicles = vehicle.NewInMemory(outboxStore)

	baseRate := domain.MustMoney(decimal.NewFromInt(5), domain.MustCurrency("USD"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewService(
		s.store,
		s.facilities,
		s.vehicles,
		pricing.NewStatic(),
		baseRate,
		ident.NewSequence("res"),
		clock.NewFixed(s.now),
		logger,
		nil,
	)
	s.Require().NoError(err)
	s.svc = svc

	s.facilityID = s.seedFacility()
	s.spotID = s.seedSpot(s.facilityID, "A-1", domain.SpotTypeStandard)
	s.vehicleID = s.seedVehicle("reg-1", domain.VehicleTypeCar, false)
}

func (s *ServiceSuite) seedFacility() domain.FacilityID {
	location, err := domain.NewLocation(40.7128, -74.006, "1 Main St")
	s.Require().NoError(err)
	f, err := domain.NewParkingFacility(
		domain.FacilityID("fac-1"),
		domain.MustFacilityName("Downtown Garage"),
		domain.FacilityTypePublic,
		location,
		domain.MustCapacity(10),
		domain.AccessControlGateBarrier,
		s.now,
	)
	s.Require().NoError(err)
	f.CollectEvents()
	s.Require().NoError(s.facilities.Save(s.ctx, f, nil))
	return f.ID()
}

func (s *ServiceSuite) seedSpot(facilityID domain.FacilityID, number string, spotType domain.SpotType) domain.SpotID {
	f, err := s.facilities.FindByID(s.ctx, facilityID)
	s.Require().NoError(err)
	spot, err := domain.NewParkingSpot(domain.SpotID("spot-"+number), domain.MustSpotNumber(number), spotType, 1)
	s.Require().NoError(err)
	s.Require().NoError(f.AddSpot(spot, s.now))
	f.CollectEvents()
	s.Require().NoError(s.facilities.Save(s.ctx, f, nil))
	return spot.ID()
}

func (s *ServiceSuite) seedVehicle(plate string, vehicleType domain.VehicleType, electric bool) domain.VehicleID {
	v, err := domain.NewVehicle(
		domain.VehicleID("veh-"+plate),
		domain.OwnerID("owner-1"),
		domain.MustLicensePlate(plate, "CA"),
		vehicleType,
		electric,
		s.now,
	)
	s.Require().NoError(err)
	v.CollectEvents()
	s.Require().NoError(s.vehicles.Save(s.ctx, v, nil))
	return v.ID()
}

func (s *ServiceSuite) createInput() CreateReservationInput {
	return CreateReservationInput{
		FacilityID: s.facilityID.String(),
		SpotID:     s.spotID.String(),
		VehicleID:  s.vehicleID.String(),
		StartTime:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *ServiceSuite) TestCreateReservation() {
	s.Run("prices the slot and reserves the spot", func() {
		id, err := s.svc.CreateReservation(s.ctx, s.createInput())
		s.Require().NoError(err)

		snap, err := s.svc.GetReservation(s.ctx, id.String())
		s.Require().NoError(err)
		s.Equal(string(domain.ReservationStatusPending), snap.Status)
		s.Equal("15", snap.CostAmount)
		s.Equal("USD", snap.CostCurrency)

		f, err := s.facilities.FindByID(s.ctx, s.facilityID)
		s.Require().NoError(err)
		spot, err := f.Spot(s.spotID)
		s.Require().NoError(err)
		s.Equal(domain.SpotStatusReserved, spot.Status())
	})

	s.Run("rejects an ineligible vehicle", func() {
		bikeSpot := s.seedSpot(s.facilityID, "B-1", domain.SpotTypeBicycle)
		input := s.createInput()
		input.SpotID = bikeSpot.String()

		_, err := s.svc.CreateReservation(s.ctx, input)
		var ineligible *domain.IneligibleSpotTypeError
		s.Require().ErrorAs(err, &ineligible)
		s.Equal(domain.VehicleTypeCar, ineligible.VehicleType)
	})

	s.Run("rejects an overlapping slot on the same spot", func() {
		spotID := s.seedSpot(s.facilityID, "C-1", domain.SpotTypeStandard)
		input := s.createInput()
		input.SpotID = spotID.String()

		_, err := s.svc.CreateReservation(s.ctx, input)
		s.Require().NoError(err)

		// The spot is now reserved, and the slot overlaps.
		input.StartTime = input.StartTime.Add(time.Hour)
		input.EndTime = input.EndTime.Add(time.Hour)
		_, err = s.svc.CreateReservation(s.ctx, input)
		var reserved *domain.SpotAlreadyReservedError
		s.Require().ErrorAs(err, &reserved)
	})

	s.Run("unknown vehicle maps to not found", func() {
		input := s.createInput()
		input.VehicleID = "veh-missing"

		_, err := s.svc.CreateReservation(s.ctx, input)
		kind, ok := domain.KindOf(err)
		s.Require().True(ok)
		s.Equal(domain.KindNotFound, kind)
	})

	s.Run("unknown facility maps to not found", func() {
		input := s.createInput()
		input.FacilityID = "fac-missing"

		_, err := s.svc.CreateReservation(s.ctx, input)
		kind, ok := domain.KindOf(err)
		s.Require().True(ok)
		s.Equal(domain.KindNotFound, kind)
	})
}

func (s *ServiceSuite) TestLifecycle() {
	id, err := s.svc.CreateReservation(s.ctx, s.createInput())
	s.Require().NoError(err)

	s.Run("confirm then activate then complete", func() {
		s.Require().NoError(s.svc.ConfirmReservation(s.ctx, id.String()))
		s.Require().NoError(s.svc.ActivateReservation(s.ctx, id.String()))
		s.Require().NoError(s.svc.CompleteReservation(s.ctx, id.String()))

		snap, err := s.svc.GetReservation(s.ctx, id.String())
		s.Require().NoError(err)
		s.Equal(string(domain.ReservationStatusCompleted), snap.Status)
	})

	s.Run("terminal reservations reject further transitions", func() {
		err := s.svc.ConfirmReservation(s.ctx, id.String())
		var transition *domain.StatusTransitionError
		s.Require().ErrorAs(err, &transition)
		s.Equal("completed", transition.From)
		s.Equal("confirmed", transition.To)
	})
}

func (s *ServiceSuite) TestCancelReservation() {
	id, err := s.svc.CreateReservation(s.ctx, s.createInput())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.CancelReservation(s.ctx, id.String(), "change of plans"))

	snap, err := s.svc.GetReservation(s.ctx, id.String())
	s.Require().NoError(err)
	s.Equal(string(domain.ReservationStatusCancelled), snap.Status)
	s.Equal("change of plans", snap.CancelReason)
}

func (s *ServiceSuite) TestExtendReservation() {
	id, err := s.svc.CreateReservation(s.ctx, s.createInput())
	s.Require().NoError(err)

	s.Run("pending reservations are not extendable", func() {
		err := s.svc.ExtendReservation(s.ctx, id.String(), time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC))
		var notExtendable *domain.NotExtendableError
		s.Require().ErrorAs(err, &notExtendable)
	})

	s.Run("extending keeps the quoted cost", func() {
		s.Require().NoError(s.svc.ConfirmReservation(s.ctx, id.String()))
		s.Require().NoError(s.svc.ExtendReservation(s.ctx, id.String(), time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)))

		snap, err := s.svc.GetReservation(s.ctx, id.String())
		s.Require().NoError(err)
		s.Equal(time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC), snap.SlotEnd)
		s.Equal("15", snap.CostAmount)
	})
}

func (s *ServiceSuite) TestListVehicleReservations() {
	first, err := s.svc.CreateReservation(s.ctx, s.createInput())
	s.Require().NoError(err)

	spotID := s.seedSpot(s.facilityID, "D-1", domain.SpotTypeStandard)
	input := s.createInput()
	input.SpotID = spotID.String()
	second, err := s.svc.CreateReservation(s.ctx, input)
	s.Require().NoError(err)

	listed, err := s.svc.ListVehicleReservations(s.ctx, s.vehicleID.String())
	s.Require().NoError(err)
	s.Len(listed, 2)

	ids := []string{listed[0].ID, listed[1].ID}
	s.ElementsMatch(ids, []string{first.String(), second.String()})
}
