package ptyt

import "time"

// Clock supplies the current calendar day. Injected so date maths is
// reproducible.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Today returns midnight UTC of the current day.
func (SystemClock) Today() time.Time { return Day(time.Now()) }

// FixedClock always returns the same day.
type FixedClock time.Time

// Today implements Clock.
func (c FixedClock) Today() time.Time { return Day(time.Time(c)) }

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
