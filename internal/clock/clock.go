// Package clock provides an injectable wall-time source so unlock and
// cooldown decisions are deterministic in tests.
package clock

import "time"

// Clock yields the current wall time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the real wall clock.
func System() Clock { return systemClock{} }

// Fixed is a test clock pinned to a settable instant.
type Fixed struct {
	T time.Time
}

// NewFixed returns a test clock pinned to t.
func NewFixed(t time.Time) *Fixed { return &Fixed{T: t} }

func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
