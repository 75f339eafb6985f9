package handlers

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
	"parkly/internal/events"
	"parkly/internal/events/outbox"
	"parkly/internal/facility"
	"parkly/internal/parking"
	"parkly/internal/reservation"
)

type ConsistencySuite struct {
	suite.Suite

	ctx          context.Context
	now          time.Time
	outbox       *outbox.InMemory
	facilities   *facility.InMemory
	reservations *reservation.InMemory
	sessions     *parking.InMemory
	bus          *events.Bus
	dispatcher   *outbox.Dispatcher

	facilityID domain.FacilityID
	spotID     domain.SpotID
}

func TestConsistencySuite(t *testing.T) {
	suite.Run(t, new(ConsistencySuite))
}

func (s *ConsistencySuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	s.outbox = outbox.NewInMemory()
	s.facilities = facility.NewInMemory(s.outbox)
	s.reservations = reservation.NewInMemory(s.outbox)
	s.sessions = parking.NewInMemory(s.outbox)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.bus = events.NewBus(logger)
	NewConsistency(s.facilities, s.reservations, s.sessions, clock.NewFixed(s.now), logger).Register(s.bus)
	s.dispatcher = outbox.NewDispatcher(s.outbox, s.bus, clock.NewFixed(s.now), logger)

	s.facilityID, s.spotID = s.seedFacility()
}

func (s *ConsistencySuite) seedFacility() (domain.FacilityID, domain.SpotID) {
	location, err := domain.NewLocation(40.7128, -74.006, "1 Main St")
	s.Require().NoError(err)
	f, err := domain.NewParkingFacility(
		domain.FacilityID("fac-1"),
		domain.MustFacilityName("Downtown Garage"),
		domain.FacilityTypePublic,
		location,
		domain.MustCapacity(5),
		domain.AccessControlQRCode,
		s.now,
	)
	s.Require().NoError(err)
	spot, err := domain.NewParkingSpot(domain.SpotID("spot-1"), domain.MustSpotNumber("A-1"), domain.SpotTypeStandard, 1)
	s.Require().NoError(err)
	s.Require().NoError(f.AddSpot(spot, s.now))
	f.CollectEvents()
	s.Require().NoError(s.facilities.Save(s.ctx, f, nil))
	return f.ID(), spot.ID()
}

func (s *ConsistencySuite) spotStatus() domain.SpotStatus {
	f, err := s.facilities.FindByID(s.ctx, s.facilityID)
	s.Require().NoError(err)
	spot, err := f.Spot(s.spotID)
	s.Require().NoError(err)
	return spot.Status()
}

func (s *ConsistencySuite) seedReservation(id string) *domain.Reservation {
	slot := domain.MustTimeSlot(s.now.Add(time.Hour), s.now.Add(4*time.Hour))
	cost := domain.MustMoney(decimal.NewFromInt(15), domain.MustCurrency("USD"))
	r, err := domain.NewReservation(
		domain.ReservationID(id),
		s.facilityID,
		s.spotID,
		domain.VehicleID("veh-1"),
		slot,
		cost,
		s.now,
	)
	s.Require().NoError(err)
	r.CollectEvents()
	s.Require().NoError(s.reservations.Save(s.ctx, r, nil))
	return r
}

func (s *ConsistencySuite) save(agg interface {
	CollectEvents() []domain.Event
}, persist func(entries []outbox.Entry) error) {
	entries, err := outbox.FromEvents(agg.CollectEvents()...)
	s.Require().NoError(err)
	s.Require().NoError(persist(entries))
}

func (s *ConsistencySuite) TestReservationCancelledReleasesSpot() {
	r := s.seedReservation("r-1")
	f, err := s.facilities.FindByID(s.ctx, s.facilityID)
	s.Require().NoError(err)
	s.Require().NoError(f.ReserveSpot(s.spotID))
	s.Require().NoError(s.facilities.Save(s.ctx, f, nil))
	s.Require().Equal(domain.SpotStatusReserved, s.spotStatus())

	s.Require().NoError(r.Cancel("no show", s.now))
	s.save(r, func(entries []outbox.Entry) error {
		return s.reservations.Save(s.ctx, r, entries)
	})

	s.Require().NoError(s.dispatcher.Drain(s.ctx))
	s.Equal(domain.SpotStatusAvailable, s.spotStatus())
}

func (s *ConsistencySuite) TestCancelledEventForMissingReservationNoOps() {
	event, err := domain.NewReservationCancelled(domain.ReservationID("r-ghost"), "test", s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.bus.Publish(s.ctx, event))
	s.Equal(domain.SpotStatusAvailable, s.spotStatus())
}

func (s *ConsistencySuite) endedSession(id string, reservationID domain.ReservationID) *domain.ParkingSession {
	zero, err := domain.ZeroMoney(domain.MustCurrency("USD"))
	s.Require().NoError(err)
	session, err := domain.NewParkingSession(
		domain.SessionID(id),
		s.facilityID,
		s.spotID,
		domain.VehicleID("veh-1"),
		reservationID,
		s.now,
		zero,
	)
	s.Require().NoError(err)
	total := domain.MustMoney(decimal.NewFromInt(10), domain.MustCurrency("USD"))
	s.Require().NoError(session.End(total, s.now.Add(150*time.Minute)))
	return session
}

func (s *ConsistencySuite) TestSessionEndedReleasesSpot() {
	f, err := s.facilities.FindByID(s.ctx, s.facilityID)
	s.Require().NoError(err)
	s.Require().NoError(f.OccupySpot(s.spotID))
	s.Require().NoError(s.facilities.Save(s.ctx, f, nil))

	session := s.endedSession("ses-1", "")
	s.save(session, func(entries []outbox.Entry) error {
		return s.sessions.Save(s.ctx, session, entries)
	})

	s.Require().NoError(s.dispatcher.Drain(s.ctx))
	s.Equal(domain.SpotStatusAvailable, s.spotStatus())
}

func (s *ConsistencySuite) TestSessionEndedCompletesLinkedReservation() {
	r := s.seedReservation("r-1")
	s.Require().NoError(r.Confirm(s.now))
	s.Require().NoError(r.Activate(s.now))
	r.CollectEvents()
	s.Require().NoError(s.reservations.Save(s.ctx, r, nil))

	session := s.endedSession("ses-1", r.ID())
	s.save(session, func(entries []outbox.Entry) error {
		return s.sessions.Save(s.ctx, session, entries)
	})

	s.Require().NoError(s.dispatcher.Drain(s.ctx))

	completed, err := s.reservations.FindByID(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(domain.ReservationStatusCompleted, completed.Status())
}

func (s *ConsistencySuite) TestSessionEndedSkipsMissingReservation() {
	session := s.endedSession("ses-1", "r-vanished")
	s.save(session, func(entries []outbox.Entry) error {
		return s.sessions.Save(s.ctx, session, entries)
	})

	// Only the spot release applies; the drain must not error.
	s.Require().NoError(s.dispatcher.Drain(s.ctx))
	s.Equal(domain.SpotStatusAvailable, s.spotStatus())
}

func (s *ConsistencySuite) TestReplayedSessionEndedIsHarmless() {
	r := s.seedReservation("r-1")
	s.Require().NoError(r.Confirm(s.now))
	s.Require().NoError(r.Activate(s.now))
	r.CollectEvents()
	s.Require().NoError(s.reservations.Save(s.ctx, r, nil))

	session := s.endedSession("ses-1", r.ID())
	s.save(session, func(entries []outbox.Entry) error {
		return s.sessions.Save(s.ctx, session, entries)
	})
	s.Require().NoError(s.dispatcher.Drain(s.ctx))

	// Redeliver the same event: release is idempotent and the completed
	// reservation is skipped.
	event, err := domain.NewSessionEnded(session.ID(), domain.MustMoney(decimal.NewFromInt(10), domain.MustCurrency("USD")), s.now.Add(150*time.Minute))
	s.Require().NoError(err)
	s.Require().NoError(s.bus.Publish(s.ctx, event))

	completed, err := s.reservations.FindByID(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(domain.ReservationStatusCompleted, completed.Status())
}
