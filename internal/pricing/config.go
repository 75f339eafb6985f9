package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"parkly/internal/domain"
)

// Strategy names accepted by FromConfig.
const (
	StrategyStatic           = "static"
	StrategySurge            = "surge"
	StrategyEvent            = "event"
	StrategyTimeOfDay        = "time_of_day"
	StrategyTiered           = "tiered"
	StrategyDurationDiscount = "duration_discount"
)

// Config selects and parameterizes the active strategy. Only the fields the
// named strategy uses are read; the rest may stay zero.
type Config struct {
	Name           string
	Multiplier     decimal.Decimal
	PeakStartHour  int
	PeakEndHour    int
	PeakMultiplier decimal.Decimal
	FreeHours      decimal.Decimal
	DailyMax       domain.Money
}

// FromConfig builds the configured strategy. Aggregates never pick their own
// pricing; the choice is made here, at wiring time.
func FromConfig(cfg Config) (Strategy, error) {
	switch cfg.Name {
	case StrategyStatic, "":
		return NewStatic(), nil
	case StrategySurge:
		return NewSurge(cfg.Multiplier)
	case StrategyEvent:
		return NewEventAware(cfg.Multiplier)
	case StrategyTimeOfDay:
		return NewTimeOfDay(cfg.PeakStartHour, cfg.PeakEndHour, cfg.PeakMultiplier)
	case StrategyTiered:
		return NewTiered(cfg.FreeHours)
	case StrategyDurationDiscount:
		return NewDurationDiscount(cfg.DailyMax)
	}
	return nil, fmt.Errorf("unknown pricing strategy %q", cfg.Name)
}
