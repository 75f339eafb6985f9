package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

type InMemoryStoreSuite struct {
	suite.Suite

	ctx   context.Context
	now   time.Time
	store *InMemory
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s.store = NewInMemory(outbox.NewInMemory())
}

func (s *InMemoryStoreSuite) reservation(id, spotID string, startHour, endHour int) *domain.Reservation {
	slot := domain.MustTimeSlot(
		time.Date(2025, 6, 1, startHour, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, endHour, 0, 0, 0, time.UTC),
	)
	cost := domain.MustMoney(decimal.NewFromInt(15), domain.MustCurrency("USD"))
	r, err := domain.NewReservation(
		domain.ReservationID(id),
		domain.FacilityID("fac-1"),
		domain.SpotID(spotID),
		domain.VehicleID("veh-1"),
		slot,
		cost,
		s.now,
	)
	s.Require().NoError(err)
	r.CollectEvents()
	return r
}

func (s *InMemoryStoreSuite) TestSaveRejectsOverlap() {
	s.Require().NoError(s.store.Save(s.ctx, s.reservation("r-1", "spot-1", 9, 12), nil))

	s.Run("overlapping slot on the same spot conflicts", func() {
		err := s.store.Save(s.ctx, s.reservation("r-2", "spot-1", 11, 13), nil)
		s.Require().ErrorIs(err, storage.ErrConflict)
	})

	s.Run("same slot on another spot is fine", func() {
		s.Require().NoError(s.store.Save(s.ctx, s.reservation("r-3", "spot-2", 9, 12), nil))
	})

	s.Run("adjacent slot on the same spot is fine", func() {
		s.Require().NoError(s.store.Save(s.ctx, s.reservation("r-4", "spot-1", 12, 14), nil))
	})

	s.Run("updating the existing reservation is not a self-conflict", func() {
		r, err := s.store.FindByID(s.ctx, domain.ReservationID("r-1"))
		s.Require().NoError(err)
		s.Require().NoError(r.Confirm(s.now))
		r.CollectEvents()
		s.Require().NoError(s.store.Save(s.ctx, r, nil))
	})
}

func (s *InMemoryStoreSuite) TestTerminalReservationsDoNotBlock() {
	r := s.reservation("r-1", "spot-1", 9, 12)
	s.Require().NoError(r.Cancel("no show", s.now))
	r.CollectEvents()
	s.Require().NoError(s.store.Save(s.ctx, r, nil))

	s.Require().NoError(s.store.Save(s.ctx, s.reservation("r-2", "spot-1", 9, 12), nil))
}

func (s *InMemoryStoreSuite) TestFindBySpotAndTime() {
	s.Require().NoError(s.store.Save(s.ctx, s.reservation("r-1", "spot-1", 9, 12), nil))
	s.Require().NoError(s.store.Save(s.ctx, s.reservation("r-2", "spot-1", 14, 16), nil))

	slot := domain.MustTimeSlot(
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
	)
	matches, err := s.store.FindBySpotAndTime(s.ctx, domain.SpotID("spot-1"), slot)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(domain.ReservationID("r-1"), matches[0].ID())
}

func (s *InMemoryStoreSuite) TestFindByIDMissing() {
	_, err := s.store.FindByID(s.ctx, domain.ReservationID("nope"))
	s.Require().ErrorIs(err, storage.ErrNotFound)
}
