package events

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"parkly/internal/domain"
)

type CodecSuite struct {
	suite.Suite
	now time.Time
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
}

func (s *CodecSuite) TestRoundTrip() {
	event, err := domain.NewReservationCancelled(domain.ReservationID("r-1"), "no show", s.now)
	s.Require().NoError(err)

	payload, err := Encode(event)
	s.Require().NoError(err)

	decoded, err := Decode(domain.EventReservationCancelled, payload)
	s.Require().NoError(err)

	cancelled, ok := decoded.(domain.ReservationCancelled)
	s.Require().True(ok)
	s.Equal(event.ReservationID, cancelled.ReservationID)
	s.Equal("no show", cancelled.Reason)
	s.True(s.now.Equal(cancelled.At))
}

func (s *CodecSuite) TestDecodePreservesDispatchKey() {
	event, err := domain.NewSessionEnded(
		domain.SessionID("ses-1"),
		domain.MustMoney(decimal.NewFromInt(10), domain.MustCurrency("USD")),
		s.now,
	)
	s.Require().NoError(err)

	payload, err := Encode(event)
	s.Require().NoError(err)

	decoded, err := Decode(domain.EventSessionEnded, payload)
	s.Require().NoError(err)
	s.Equal(domain.EventSessionEnded, decoded.EventName())
	s.Equal("ses-1", decoded.AggregateID())

	// Money is deliberately absent from the payload; reactions reload the
	// session to get the final cost.
	ended, ok := decoded.(domain.SessionEnded)
	s.Require().True(ok)
	s.True(ended.TotalCost.IsZero())
}

func (s *CodecSuite) TestDecodeUnknownName() {
	_, err := Decode("facility.renamed", []byte(`{}`))
	s.Require().Error(err)
}

func (s *CodecSuite) TestDecodeMalformedPayload() {
	_, err := Decode(domain.EventReservationCancelled, []byte(`{"reservation_id":`))
	s.Require().Error(err)
}
