package domain

import "time"

// TimeSlot is a half-open interval [start, end) with start strictly before
// end.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

// NewTimeSlot validates the interval ordering.
func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if start.IsZero() {
		return TimeSlot{}, requiredField("TimeSlot", "start")
	}
	if end.IsZero() {
		return TimeSlot{}, requiredField("TimeSlot", "end")
	}
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

// MustTimeSlot panics on invalid input. For tests and literals only.
func MustTimeSlot(start, end time.Time) TimeSlot {
	s, err := NewTimeSlot(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

func (s TimeSlot) Start() time.Time        { return s.start }
func (s TimeSlot) End() time.Time          { return s.end }
func (s TimeSlot) Duration() time.Duration { return s.end.Sub(s.start) }
func (s TimeSlot) IsZero() bool            { return s.start.IsZero() && s.end.IsZero() }

// Overlaps reports whether the two half-open intervals intersect. Touching
// boundaries do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.start.Before(other.end) && other.start.Before(s.end)
}

// IsAdjacent reports whether either boundary touches exactly.
func (s TimeSlot) IsAdjacent(other TimeSlot) bool {
	return s.end.Equal(other.start) || other.end.Equal(s.start)
}
