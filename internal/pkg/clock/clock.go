// Package clock supplies the time source injected into handlers and jobs.
// Handlers take a plain func() time.Time; System and (*Manual).Now both fit.
package clock

import (
	"sync"
	"time"
)

// System returns the current wall time in UTC.
func System() time.Time {
	return time.Now().UTC()
}

// Manual is a settable clock for tests and the operator CLI.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}

// Advance moves the clock forward by d and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
