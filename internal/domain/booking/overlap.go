package booking

import "time"

// Interval is the half-open time range [Start, End) occupied by an
// appointment. End equals Start plus the service duration.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func IntervalFrom(start time.Time, durationMin int) Interval {
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMin) * time.Minute),
	}
}

func (i Interval) IsPoint() bool {
	return !i.End.After(i.Start)
}

// Overlaps applies the half-open rule: [a,b) and [c,d) overlap iff
// a < d and c < b. Two degenerate intervals collide only when they
// fall on the same instant, so back-to-back bookings stay legal.
func (i Interval) Overlaps(other Interval) bool {
	if i.IsPoint() && other.IsPoint() {
		return i.Start.Equal(other.Start)
	}
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
