package facility

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
	now   time.Time
	store *InMemory
	svc   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s.store = NewInMemory(outbox.NewInMemory())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewService(s.store, ident.NewSequence("fac"), clock.NewFixed(s.now), logger, nil)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) createInput() CreateFacilityInput {
	return CreateFacilityInput{
		Name:          "Downtown Garage",
		FacilityType:  "public",
		Latitude:      40.7128,
		Longitude:     -74.006,
		Address:       "1 Main St",
		Capacity:      3,
		AccessControl: "gate_barrier",
	}
}

func (s *ServiceSuite) TestCreateFacility() {
	s.Run("persists a facility with no spots", func() {
		id, err := s.svc.CreateFacility(s.ctx, s.createInput())
		s.Require().NoError(err)

		snap, err := s.svc.GetFacility(s.ctx, id.String())
		s.Require().NoError(err)
		s.Equal("Downtown Garage", snap.Name)
		s.Equal(3, snap.Capacity)
		s.Empty(snap.Spots)
	})

	s.Run("rejects out-of-range coordinates", func() {
		input := s.createInput()
		input.Latitude = 91

		_, err := s.svc.CreateFacility(s.ctx, input)
		s.Require().ErrorIs(err, domain.ErrInvalidLatitude)
	})

	s.Run("rejects an unknown facility type", func() {
		input := s.createInput()
		input.FacilityType = "municipal"

		_, err := s.svc.CreateFacility(s.ctx, input)
		kind, ok := domain.KindOf(err)
		s.Require().True(ok)
		s.Equal(domain.KindValidation, kind)
	})
}

func (s *ServiceSuite) TestAddSpot() {
	id, err := s.svc.CreateFacility(s.ctx, s.createInput())
	s.Require().NoError(err)

	addSpot := func(number, spotType string) (domain.SpotID, error) {
		return s.svc.AddSpot(s.ctx, AddSpotInput{
			FacilityID: id.String(),
			SpotNumber: number,
			SpotType:   spotType,
			Floor:      1,
		})
	}

	s.Run("adds spots up to capacity", func() {
		for _, number := range []string{"A-1", "A-2", "A-3"} {
			_, err := addSpot(number, "standard")
			s.Require().NoError(err)
		}

		snap, err := s.svc.GetFacility(s.ctx, id.String())
		s.Require().NoError(err)
		s.Len(snap.Spots, 3)
	})

	s.Run("the fourth spot exceeds capacity", func() {
		_, err := addSpot("A-4", "standard")
		var exceeded *domain.CapacityExceededError
		s.Require().ErrorAs(err, &exceeded)
		s.Equal(3, exceeded.Capacity)
	})

	s.Run("unknown facility propagates not found", func() {
		_, err := s.svc.AddSpot(s.ctx, AddSpotInput{
			FacilityID: "fac-missing",
			SpotNumber: "Z-1",
			SpotType:   "standard",
		})
		s.Require().ErrorIs(err, storage.ErrNotFound)
	})
}

func (s *ServiceSuite) TestRemoveSpot() {
	id, err := s.svc.CreateFacility(s.ctx, s.createInput())
	s.Require().NoError(err)
	spotID, err := s.svc.AddSpot(s.ctx, AddSpotInput{
		FacilityID: id.String(),
		SpotNumber: "A-1",
		SpotType:   "standard",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.RemoveSpot(s.ctx, RemoveSpotInput{
		FacilityID: id.String(),
		SpotID:     spotID.String(),
	}))

	snap, err := s.svc.GetFacility(s.ctx, id.String())
	s.Require().NoError(err)
	s.Empty(snap.Spots)

	err = s.svc.RemoveSpot(s.ctx, RemoveSpotInput{FacilityID: id.String(), SpotID: spotID.String()})
	var notFound *domain.SpotNotFoundError
	s.Require().ErrorAs(err, &notFound)
}

func (s *ServiceSuite) TestFindAvailableSpots() {
	id, err := s.svc.CreateFacility(s.ctx, s.createInput())
	s.Require().NoError(err)
	for _, spec := range []struct{ number, spotType string }{
		{"A-1", "standard"},
		{"A-2", "ev_charging"},
		{"A-3", "standard"},
	} {
		_, err := s.svc.AddSpot(s.ctx, AddSpotInput{
			FacilityID: id.String(),
			SpotNumber: spec.number,
			SpotType:   spec.spotType,
		})
		s.Require().NoError(err)
	}

	slotStart := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	slotEnd := slotStart.Add(2 * time.Hour)

	s.Run("lists every available spot", func() {
		spots, err := s.svc.FindAvailableSpots(s.ctx, FindAvailableSpotsInput{
			FacilityID: id.String(),
			SlotStart:  slotStart,
			SlotEnd:    slotEnd,
		})
		s.Require().NoError(err)
		s.Len(spots, 3)
	})

	s.Run("filters by spot type", func() {
		spots, err := s.svc.FindAvailableSpots(s.ctx, FindAvailableSpotsInput{
			FacilityID: id.String(),
			SlotStart:  slotStart,
			SlotEnd:    slotEnd,
			SpotType:   "ev_charging",
		})
		s.Require().NoError(err)
		s.Require().Len(spots, 1)
		s.Equal("A-2", spots[0].Number)
	})

	s.Run("rejects an inverted slot", func() {
		_, err := s.svc.FindAvailableSpots(s.ctx, FindAvailableSpotsInput{
			FacilityID: id.String(),
			SlotStart:  slotEnd,
			SlotEnd:    slotStart,
		})
		s.Require().ErrorIs(err, domain.ErrInvalidTimeSlot)
	})

	s.Run("excludes reserved spots", func() {
		f, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		reserved := f.Spots()[0]
		s.Require().NoError(f.ReserveSpot(reserved.ID()))
		s.Require().NoError(s.store.Save(s.ctx, f, nil))

		spots, err := s.svc.FindAvailableSpots(s.ctx, FindAvailableSpotsInput{
			FacilityID: id.String(),
			SlotStart:  slotStart,
			SlotEnd:    slotEnd,
		})
		s.Require().NoError(err)
		s.Len(spots, 2)
	})
}

func (s *ServiceSuite) TestFindByLocation() {
	near := s.createInput()
	nearID, err := s.svc.CreateFacility(s.ctx, near)
	s.Require().NoError(err)

	far := s.createInput()
	far.Name = "Uptown Garage"
	far.Latitude = 41.8781
	far.Longitude = -87.6298
	far.Address = "2 Lake St"
	_, err = s.svc.CreateFacility(s.ctx, far)
	s.Require().NoError(err)

	s.Run("returns only facilities within the radius", func() {
		found, err := s.svc.FindByLocation(s.ctx, FindByLocationInput{
			Latitude:  40.7,
			Longitude: -74.0,
			RadiusKm:  10,
		})
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal(nearID.String(), found[0].ID)
	})

	s.Run("rejects a non-positive radius", func() {
		_, err := s.svc.FindByLocation(s.ctx, FindByLocationInput{Latitude: 40.7, Longitude: -74.0})
		s.Require().ErrorIs(err, domain.ErrNonPositiveRadius)
	})
}
