package pricing

import (
	"github.com/shopspring/decimal"

	"parkly/internal/domain"
)

// Strategy computes the cost of occupying a spot for a time slot at a base
// hourly rate. Implementations are pure: identical inputs always yield
// identical output.
type Strategy interface {
	Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error)
}

// billableHours converts a slot duration to fractional hours. A 90 minute
// slot bills 1.5 hours, never rounded up.
func billableHours(slot domain.TimeSlot) decimal.Decimal {
	return decimal.NewFromFloat(slot.Duration().Seconds()).
		Div(decimal.NewFromInt(3600))
}

// Static bills hours times the base rate with no adjustment.
type Static struct{}

func NewStatic() Static { return Static{} }

func (Static) Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error) {
	return baseRate.Multiply(billableHours(slot))
}

// Surge applies a demand multiplier on top of the flat total.
type Surge struct {
	multiplier decimal.Decimal
}

func NewSurge(multiplier decimal.Decimal) (Surge, error) {
	if !multiplier.IsPositive() {
		return Surge{}, domain.ErrNonPositiveMultiplier
	}
	return Surge{multiplier: multiplier}, nil
}

func (s Surge) Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error) {
	flat, err := baseRate.Multiply(billableHours(slot))
	if err != nil {
		return domain.Money{}, err
	}
	return flat.Multiply(s.multiplier)
}

// EventAware applies a venue-event multiplier on top of the flat total.
type EventAware struct {
	eventMultiplier decimal.Decimal
}

func NewEventAware(eventMultiplier decimal.Decimal) (EventAware, error) {
	if !eventMultiplier.IsPositive() {
		return EventAware{}, domain.ErrNonPositiveMultiplier
	}
	return EventAware{eventMultiplier: eventMultiplier}, nil
}

func (e EventAware) Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error) {
	flat, err := baseRate.Multiply(billableHours(slot))
	if err != nil {
		return domain.Money{}, err
	}
	return flat.Multiply(e.eventMultiplier)
}

// TimeOfDay applies a peak multiplier when the slot starts inside the
// half-open peak window [start, end) of the slot start's local day.
type TimeOfDay struct {
	peakStartHour  int
	peakEndHour    int
	peakMultiplier decimal.Decimal
}

func NewTimeOfDay(peakStartHour, peakEndHour int, peakMultiplier decimal.Decimal) (TimeOfDay, error) {
	if peakStartHour < 0 || peakStartHour > 23 || peakEndHour < 0 || peakEndHour > 23 {
		return TimeOfDay{}, domain.ErrInvalidPeakHours
	}
	if peakStartHour >= peakEndHour {
		return TimeOfDay{}, domain.ErrInvalidPeakHours
	}
	if !peakMultiplier.IsPositive() {
		return TimeOfDay{}, domain.ErrNonPositiveMultiplier
	}
	return TimeOfDay{
		peakStartHour:  peakStartHour,
		peakEndHour:    peakEndHour,
		peakMultiplier: peakMultiplier,
	}, nil
}

func (t TimeOfDay) Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error) {
	flat, err := baseRate.Multiply(billableHours(slot))
	if err != nil {
		return domain.Money{}, err
	}
	hour := slot.Start().Hour()
	if hour >= t.peakStartHour && hour < t.peakEndHour {
		return flat.Multiply(t.peakMultiplier)
	}
	return flat, nil
}

// Tiered gives the first N hours free and bills the remainder flat.
type Tiered struct {
	freeHours decimal.Decimal
}

func NewTiered(freeHours decimal.Decimal) (Tiered, error) {
	if freeHours.IsNegative() {
		return Tiered{}, domain.ErrNegativeFreeHours
	}
	return Tiered{freeHours: freeHours}, nil
}

func (t Tiered) Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error) {
	billable := billableHours(slot).Sub(t.freeHours)
	if billable.IsNegative() {
		billable = decimal.Zero
	}
	return baseRate.Multiply(billable)
}

// DurationDiscount bills flat but never above a configured daily maximum.
type DurationDiscount struct {
	dailyMax domain.Money
}

func NewDurationDiscount(dailyMax domain.Money) (DurationDiscount, error) {
	if dailyMax.IsZero() {
		return DurationDiscount{}, domain.ErrMissingDailyMax
	}
	return DurationDiscount{dailyMax: dailyMax}, nil
}

func (d DurationDiscount) Calculate(slot domain.TimeSlot, baseRate domain.Money) (domain.Money, error) {
	flat, err := baseRate.Multiply(billableHours(slot))
	if err != nil {
		return domain.Money{}, err
	}
	if flat.Currency() != d.dailyMax.Currency() {
		return domain.Money{}, &domain.CurrencyMismatchError{
			A: flat.Currency().Code(),
			B: d.dailyMax.Currency().Code(),
		}
	}
	if flat.GreaterThan(d.dailyMax) {
		return d.dailyMax, nil
	}
	return flat, nil
}
