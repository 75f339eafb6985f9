package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"parkly/internal/domain"
)

type PricingSuite struct {
	suite.Suite
	usd  domain.Currency
	rate domain.Money
}

func TestPricingSuite(t *testing.T) {
	suite.Run(t, new(PricingSuite))
}

func (s *PricingSuite) SetupTest() {
	s.usd = domain.MustCurrency("USD")
	s.rate = domain.MustMoney(decimal.NewFromInt(5), s.usd)
}

func (s *PricingSuite) usdAmount(v string) domain.Money {
	return domain.MustMoney(decimal.RequireFromString(v), s.usd)
}

// slotAt builds a slot starting at the given hour of a fixed day.
func (s *PricingSuite) slotAt(hour int, d time.Duration) domain.TimeSlot {
	start := time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
	return domain.MustTimeSlot(start, start.Add(d))
}

func (s *PricingSuite) TestStatic() {
	s.Run("three hours at five dollars", func() {
		cost, err := NewStatic().Calculate(s.slotAt(9, 3*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("15")))
	})

	s.Run("fractional hours are not rounded", func() {
		cost, err := NewStatic().Calculate(s.slotAt(9, 90*time.Minute), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("7.5")))
	})

	s.Run("idempotent for identical inputs", func() {
		slot := s.slotAt(9, 2*time.Hour)
		first, err := NewStatic().Calculate(slot, s.rate)
		s.Require().NoError(err)
		second, err := NewStatic().Calculate(slot, s.rate)
		s.Require().NoError(err)
		s.True(first.Equal(second))
	})
}

func (s *PricingSuite) TestSurge() {
	s.Run("applies the multiplier", func() {
		surge, err := NewSurge(decimal.RequireFromString("1.5"))
		s.Require().NoError(err)

		cost, err := surge.Calculate(s.slotAt(9, 2*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("15")))
	})

	s.Run("rejects non-positive multipliers", func() {
		_, err := NewSurge(decimal.Zero)
		s.Require().ErrorIs(err, domain.ErrNonPositiveMultiplier)

		_, err = NewSurge(decimal.NewFromInt(-1))
		s.Require().ErrorIs(err, domain.ErrNonPositiveMultiplier)
	})
}

func (s *PricingSuite) TestEventAware() {
	event, err := NewEventAware(decimal.NewFromInt(2))
	s.Require().NoError(err)

	cost, err := event.Calculate(s.slotAt(9, 2*time.Hour), s.rate)
	s.Require().NoError(err)
	s.True(cost.Equal(s.usdAmount("20")))
}

func (s *PricingSuite) TestTimeOfDay() {
	peak, err := NewTimeOfDay(8, 18, decimal.NewFromInt(2))
	s.Require().NoError(err)

	s.Run("peak start hour doubles the rate", func() {
		cost, err := peak.Calculate(s.slotAt(8, 2*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("20")))
	})

	s.Run("peak end hour is exclusive", func() {
		cost, err := peak.Calculate(s.slotAt(18, 2*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("10")))
	})

	s.Run("off-peak start is flat even if the slot crosses into peak", func() {
		cost, err := peak.Calculate(s.slotAt(6, 4*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("20")))
	})

	s.Run("rejects invalid windows", func() {
		_, err := NewTimeOfDay(18, 8, decimal.NewFromInt(2))
		s.Require().ErrorIs(err, domain.ErrInvalidPeakHours)

		_, err = NewTimeOfDay(-1, 8, decimal.NewFromInt(2))
		s.Require().ErrorIs(err, domain.ErrInvalidPeakHours)

		_, err = NewTimeOfDay(8, 24, decimal.NewFromInt(2))
		s.Require().ErrorIs(err, domain.ErrInvalidPeakHours)
	})
}

func (s *PricingSuite) TestTiered() {
	tiered, err := NewTiered(decimal.NewFromInt(1))
	s.Require().NoError(err)

	s.Run("first hour free", func() {
		cost, err := tiered.Calculate(s.slotAt(9, 3*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("10")))
	})

	s.Run("floors at zero for short stays", func() {
		cost, err := tiered.Calculate(s.slotAt(9, 30*time.Minute), s.rate)
		s.Require().NoError(err)
		s.True(cost.Amount().IsZero())
	})

	s.Run("rejects negative free hours", func() {
		_, err := NewTiered(decimal.NewFromInt(-1))
		s.Require().ErrorIs(err, domain.ErrNegativeFreeHours)
	})
}

func (s *PricingSuite) TestDurationDiscount() {
	capped, err := NewDurationDiscount(s.usdAmount("30"))
	s.Require().NoError(err)

	s.Run("bills flat under the cap", func() {
		cost, err := capped.Calculate(s.slotAt(9, 4*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("20")))
	})

	s.Run("caps long stays at the daily maximum", func() {
		cost, err := capped.Calculate(s.slotAt(0, 10*time.Hour), s.rate)
		s.Require().NoError(err)
		s.True(cost.Equal(s.usdAmount("30")))
	})

	s.Run("rejects a cap in another currency", func() {
		eurCap, err := NewDurationDiscount(domain.MustMoney(decimal.NewFromInt(30), domain.MustCurrency("EUR")))
		s.Require().NoError(err)

		_, err = eurCap.Calculate(s.slotAt(9, 2*time.Hour), s.rate)
		var mismatch *domain.CurrencyMismatchError
		s.Require().ErrorAs(err, &mismatch)
	})
}

func (s *PricingSuite) TestFromConfig() {
	s.Run("defaults to static", func() {
		strategy, err := FromConfig(Config{})
		s.Require().NoError(err)
		s.IsType(Static{}, strategy)
	})

	s.Run("builds the named strategy", func() {
		strategy, err := FromConfig(Config{Name: StrategyTiered, FreeHours: decimal.NewFromInt(2)})
		s.Require().NoError(err)
		s.IsType(Tiered{}, strategy)
	})

	s.Run("rejects unknown names", func() {
		_, err := FromConfig(Config{Name: "roulette"})
		s.Error(err)
	})
}
