package clock

import "time"

// Clock abstracts "now" so period resolution and expiry stamps are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns the wall clock (UTC).
func New() Clock {
	return systemClock{}
}

// Fixed is a clock pinned to a single instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
