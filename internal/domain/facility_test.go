package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FacilitySuite struct {
	suite.Suite
	now time.Time
}

func TestFacilitySuite(t *testing.T) {
	suite.Run(t, new(FacilitySuite))
}

func (s *FacilitySuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func (s *FacilitySuite) newFacility(capacity int) *ParkingFacility {
	f, err := NewParkingFacility(
		"fac-1",
		MustFacilityName("Downtown Garage"),
		FacilityTypePublic,
		MustLocation(40.7128, -74.0060, "1 Main St"),
		MustCapacity(capacity),
		AccessControlLPR,
		s.now,
	)
	s.Require().NoError(err)
	f.CollectEvents()
	return f
}

func (s *FacilitySuite) newSpot(id string, spotType SpotType) *ParkingSpot {
	spot, err := NewParkingSpot(SpotID(id), MustSpotNumber("N-"+id), spotType, 1)
	s.Require().NoError(err)
	return spot
}

func (s *FacilitySuite) TestCreation() {
	s.Run("records FacilityCreated", func() {
		f, err := NewParkingFacility(
			"fac-2",
			MustFacilityName("Airport Lot"),
			FacilityTypePrivate,
			MustLocation(33.94, -118.40, "1 World Way"),
			MustCapacity(100),
			AccessControlGateBarrier,
			s.now,
		)
		s.Require().NoError(err)

		events := f.CollectEvents()
		s.Require().Len(events, 1)
		s.Equal(EventFacilityCreated, events[0].EventName())
		s.Equal("fac-2", events[0].AggregateID())
		s.Equal(s.now, events[0].OccurredAt())
	})

	s.Run("collecting twice drains the buffer", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))
		s.Len(f.CollectEvents(), 1)
		s.Empty(f.CollectEvents())
	})
}

func (s *FacilitySuite) TestAddSpot() {
	s.Run("fills up to capacity then rejects", func() {
		f := s.newFacility(2)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))
		s.Require().NoError(f.AddSpot(s.newSpot("spot-2", SpotTypeStandard), s.now))

		err := f.AddSpot(s.newSpot("spot-3", SpotTypeStandard), s.now)
		var capErr *CapacityExceededError
		s.Require().ErrorAs(err, &capErr)
		s.Equal(2, capErr.Capacity)
		kind, ok := KindOf(err)
		s.True(ok)
		s.Equal(KindConflict, kind)
	})

	s.Run("rejects duplicate spot id", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))

		err := f.AddSpot(s.newSpot("spot-1", SpotTypeEVCharging), s.now)
		var dupErr *DuplicateSpotError
		s.Require().ErrorAs(err, &dupErr)
		s.Equal(SpotID("spot-1"), dupErr.SpotID)
	})

	s.Run("records SpotAdded with the spot type", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeEVCharging), s.now))

		events := f.CollectEvents()
		s.Require().Len(events, 1)
		added, ok := events[0].(SpotAdded)
		s.Require().True(ok)
		s.Equal(SpotTypeEVCharging, added.SpotType)
	})
}

func (s *FacilitySuite) TestRemoveSpot() {
	s.Run("removes and records SpotRemoved", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))
		f.CollectEvents()

		s.Require().NoError(f.RemoveSpot("spot-1", s.now))
		s.Empty(f.Spots())

		events := f.CollectEvents()
		s.Require().Len(events, 1)
		s.Equal(EventSpotRemoved, events[0].EventName())
	})

	s.Run("unknown spot is not found", func() {
		f := s.newFacility(5)
		err := f.RemoveSpot("spot-404", s.now)
		var nfErr *SpotNotFoundError
		s.Require().ErrorAs(err, &nfErr)
		kind, ok := KindOf(err)
		s.True(ok)
		s.Equal(KindNotFound, kind)
	})
}

func (s *FacilitySuite) TestSpotLifecycle() {
	s.Run("reserve then release returns to available", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))

		s.Require().NoError(f.ReserveSpot("spot-1"))
		spot, err := f.Spot("spot-1")
		s.Require().NoError(err)
		s.Equal(SpotStatusReserved, spot.Status())

		s.Require().NoError(f.ReleaseSpot("spot-1"))
		s.Equal(SpotStatusAvailable, spot.Status())
	})

	s.Run("reserving a reserved spot fails", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))
		s.Require().NoError(f.ReserveSpot("spot-1"))

		err := f.ReserveSpot("spot-1")
		var availErr *SpotNotAvailableError
		s.Require().ErrorAs(err, &availErr)
	})

	s.Run("release is idempotent", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))

		s.Require().NoError(f.ReleaseSpot("spot-1"))
		s.Require().NoError(f.ReleaseSpot("spot-1"))
	})

	s.Run("reserved spot can be occupied on arrival", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))
		s.Require().NoError(f.ReserveSpot("spot-1"))

		s.Require().NoError(f.OccupySpot("spot-1"))
		spot, err := f.Spot("spot-1")
		s.Require().NoError(err)
		s.Equal(SpotStatusOccupied, spot.Status())
	})

	s.Run("occupying an occupied spot fails", func() {
		f := s.newFacility(5)
		s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeStandard), s.now))
		s.Require().NoError(f.OccupySpot("spot-1"))

		err := f.OccupySpot("spot-1")
		var occErr *SpotAlreadyOccupiedError
		s.Require().ErrorAs(err, &occErr)
	})
}

func (s *FacilitySuite) TestAvailableSpots() {
	f := s.newFacility(10)
	for i, spotType := range []SpotType{SpotTypeStandard, SpotTypeStandard, SpotTypeEVCharging, SpotTypeMotorcycle} {
		s.Require().NoError(f.AddSpot(s.newSpot(fmt.Sprintf("spot-%d", i), spotType), s.now))
	}
	s.Require().NoError(f.ReserveSpot("spot-0"))

	s.Run("excludes non-available spots", func() {
		s.Len(f.AvailableSpots(nil), 3)
	})

	s.Run("filters by spot type", func() {
		ev := SpotTypeEVCharging
		spots := f.AvailableSpots(&ev)
		s.Require().Len(spots, 1)
		s.Equal(SpotTypeEVCharging, spots[0].Type())
	})

	s.Run("no match yields empty", func() {
		oversized := SpotTypeOversized
		s.Empty(f.AvailableSpots(&oversized))
	})
}

func (s *FacilitySuite) TestSnapshotRoundTrip() {
	f := s.newFacility(5)
	s.Require().NoError(f.AddSpot(s.newSpot("spot-1", SpotTypeHandicapped), s.now))
	s.Require().NoError(f.ReserveSpot("spot-1"))

	restored, err := FacilityFromSnapshot(f.Snapshot())
	s.Require().NoError(err)
	s.Equal(f.ID(), restored.ID())
	s.Equal(f.Name(), restored.Name())
	s.Require().Len(restored.Spots(), 1)
	s.Equal(SpotStatusReserved, restored.Spots()[0].Status())
	s.Empty(restored.CollectEvents())
}
