// Package timeutil provides the clock used to time pipeline stages.
package timeutil

import (
	"sync"
	"time"
)

// Clock abstracts time so stage timings can be tested.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// MockClock is a manually controlled clock for testing.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a MockClock starting at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mock's current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Since returns the mock duration since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// StageTimes records how long each named stage of a run took, in the
// order the stages were first seen.
type StageTimes struct {
	clock Clock
	names []string
	spent map[string]time.Duration
}

// NewStageTimes creates an empty recorder reading from clock.
func NewStageTimes(clock Clock) *StageTimes {
	if clock == nil {
		clock = RealClock{}
	}
	return &StageTimes{clock: clock, spent: make(map[string]time.Duration)}
}

// Start begins timing stage name and returns the function that stops it.
// Repeated stages accumulate.
//
//	done := st.Start("blur")
//	defer done()
func (s *StageTimes) Start(name string) func() {
	start := s.clock.Now()
	return func() {
		if _, ok := s.spent[name]; !ok {
			s.names = append(s.names, name)
		}
		s.spent[name] += s.clock.Since(start)
	}
}

// Get returns the time spent in stage name.
func (s *StageTimes) Get(name string) time.Duration {
	return s.spent[name]
}

// Names returns the recorded stage names in first-seen order.
func (s *StageTimes) Names() []string {
	return append([]string(nil), s.names...)
}

// Total returns the time spent across all stages.
func (s *StageTimes) Total() time.Duration {
	var total time.Duration
	for _, d := range s.spent {
		total += d
	}
	return total
}
