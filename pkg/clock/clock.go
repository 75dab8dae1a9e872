package clock

import "time"

// Clock supplies "now" to every component that needs it. Demo deployments pin
// it to a narrative date instead of the wall clock.
type Clock interface {
	Now() time.Time
	// Today returns Now truncated to midnight UTC.
	Today() time.Time
}

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

func (r Real) Today() time.Time {
	return truncateToDay(r.Now())
}

// Fixed always reports the same instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time { return f.Instant }

func (f Fixed) Today() time.Time { return truncateToDay(f.Instant) }

// FromSimulationDate builds a clock from an optional YYYY-MM-DD pin.
// An empty or malformed value falls back to the wall clock.
func FromSimulationDate(date string) Clock {
	if date == "" {
		return Real{}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Real{}
	}
	return Fixed{Instant: t.UTC()}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
