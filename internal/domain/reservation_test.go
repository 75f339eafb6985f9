package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReservationSuite struct {
	suite.Suite
	now  time.Time
	slot TimeSlot
	cost Money
}

func TestReservationSuite(t *testing.T) {
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.slot = MustTimeSlot(s.now.Add(time.Hour), s.now.Add(4*time.Hour))
	s.cost = MustMoney(decimal.NewFromInt(15), MustCurrency("USD"))
}

func (s *ReservationSuite) newReservation() *Reservation {
	r, err := NewReservation("res-1", "fac-1", "spot-1", "veh-1", s.slot, s.cost, s.now)
	s.Require().NoError(err)
	r.CollectEvents()
	return r
}

// atStatus walks a fresh reservation to the given status.
func (s *ReservationSuite) atStatus(status ReservationStatus) *Reservation {
	r := s.newReservation()
	switch status {
	case ReservationStatusPending:
	case ReservationStatusConfirmed:
		s.Require().NoError(r.Confirm(s.now))
	case ReservationStatusActive:
		s.Require().NoError(r.Confirm(s.now))
		s.Require().NoError(r.Activate(s.now))
	case ReservationStatusCompleted:
		s.Require().NoError(r.Confirm(s.now))
		s.Require().NoError(r.Activate(s.now))
		s.Require().NoError(r.Complete(s.now))
	case ReservationStatusCancelled:
		s.Require().NoError(r.Cancel("test", s.now))
	}
	r.CollectEvents()
	return r
}

func (s *ReservationSuite) TestCreation() {
	s.Run("starts pending and records ReservationCreated", func() {
		r, err := NewReservation("res-1", "fac-1", "spot-1", "veh-1", s.slot, s.cost, s.now)
		s.Require().NoError(err)
		s.Equal(ReservationStatusPending, r.Status())

		events := r.CollectEvents()
		s.Require().Len(events, 1)
		created, ok := events[0].(ReservationCreated)
		s.Require().True(ok)
		s.Equal(s.slot.Start(), created.SlotStart)
		s.Equal(s.slot.End(), created.SlotEnd)
	})

	s.Run("requires a cost", func() {
		_, err := NewReservation("res-1", "fac-1", "spot-1", "veh-1", s.slot, Money{}, s.now)
		s.Error(err)
	})
}

// TestTransitionTable exercises every (from, to) pair so the legal set stays
// exactly the five transitions the lifecycle defines.
func (s *ReservationSuite) TestTransitionTable() {
	statuses := []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusActive,
		ReservationStatusCompleted,
		ReservationStatusCancelled,
	}

	legal := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationStatusPending:   {ReservationStatusConfirmed: true, ReservationStatusCancelled: true},
		ReservationStatusConfirmed: {ReservationStatusActive: true, ReservationStatusCancelled: true},
		ReservationStatusActive:    {ReservationStatusCompleted: true, ReservationStatusCancelled: true},
	}

	apply := func(r *Reservation, target ReservationStatus) error {
		switch target {
		case ReservationStatusConfirmed:
			return r.Confirm(s.now)
		case ReservationStatusActive:
			return r.Activate(s.now)
		case ReservationStatusCompleted:
			return r.Complete(s.now)
		case ReservationStatusCancelled:
			return r.Cancel("test", s.now)
		}
		s.FailNow("no operation targets status", string(target))
		return nil
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if to == ReservationStatusPending {
				continue
			}
			s.Run(string(from)+" to "+string(to), func() {
				r := s.atStatus(from)
				err := apply(r, to)
				if legal[from][to] {
					s.Require().NoError(err)
					s.Equal(to, r.Status())
					s.Len(r.CollectEvents(), 1)
				} else {
					var trErr *StatusTransitionError
					s.Require().ErrorAs(err, &trErr)
					s.Equal(from, r.Status())
					s.Empty(r.CollectEvents())
				}
			})
		}
	}
}

func (s *ReservationSuite) TestCancel() {
	s.Run("records the reason", func() {
		r := s.newReservation()
		s.Require().NoError(r.Cancel("customer request", s.now))
		s.Equal("customer request", r.CancelReason())

		events := r.CollectEvents()
		s.Require().Len(events, 1)
		cancelled, ok := events[0].(ReservationCancelled)
		s.Require().True(ok)
		s.Equal("customer request", cancelled.Reason)
	})
}

func (s *ReservationSuite) TestExtend() {
	s.Run("stretches the slot, cost unchanged", func() {
		r := s.atStatus(ReservationStatusConfirmed)
		newEnd := s.slot.End().Add(2 * time.Hour)

		s.Require().NoError(r.Extend(newEnd))
		s.Equal(newEnd, r.Slot().End())
		s.Equal(s.slot.Start(), r.Slot().Start())
		s.True(r.Cost().Equal(s.cost))
	})

	s.Run("rejects an end at or before the current one", func() {
		r := s.atStatus(ReservationStatusConfirmed)
		s.Require().ErrorIs(r.Extend(s.slot.End()), ErrInvalidExtension)
		s.Require().ErrorIs(r.Extend(s.slot.End().Add(-time.Minute)), ErrInvalidExtension)
	})

	s.Run("only confirmed and active reservations extend", func() {
		for _, status := range []ReservationStatus{ReservationStatusPending, ReservationStatusCompleted, ReservationStatusCancelled} {
			r := s.atStatus(status)
			err := r.Extend(s.slot.End().Add(time.Hour))
			var extErr *NotExtendableError
			s.Require().ErrorAs(err, &extErr)
			s.Equal(status, extErr.Status)
		}

		for _, status := range []ReservationStatus{ReservationStatusConfirmed, ReservationStatusActive} {
			r := s.atStatus(status)
			s.Require().NoError(r.Extend(s.slot.End().Add(time.Hour)))
		}
	})
}

func (s *ReservationSuite) TestSnapshotRoundTrip() {
	r := s.atStatus(ReservationStatusCancelled)

	restored, err := ReservationFromSnapshot(r.Snapshot())
	s.Require().NoError(err)
	s.Equal(r.ID(), restored.ID())
	s.Equal(ReservationStatusCancelled, restored.Status())
	s.Equal(r.CancelReason(), restored.CancelReason())
	s.True(restored.Cost().Equal(s.cost))
	s.Empty(restored.CollectEvents())
}
