package clock

import "time"

// Clock supplies the current time to the engine so tests can pin "today".
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Today truncates a clock reading to midnight UTC. Planned check-in and
// check-out dates are compared at day granularity, never as timestamps.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf drops the time-of-day portion of t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixed is a Clock pinned to a single instant.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }
