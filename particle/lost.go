package particle

import (
	"sync/atomic"
)

// Default lost-particle budget. A run aborts once more than
// max(DefaultMaxLost, DefaultRelMaxLost * particles processed) histories
// have been lost.
const (
	DefaultMaxLost    = 10
	DefaultRelMaxLost = 1.0e-6
)

// LostTracker is the process-wide lost-particle budget. Its counters are
// the only mutable state shared between workers during transport, so they
// are maintained with atomic operations. A tracker spans one run; create a
// fresh one per run (or per test).
type LostTracker struct {
	lost  int64
	total int64

	maxLost int64
	relMax  float64
}

// NewLostTracker returns a tracker with the given absolute cap and relative
// fraction. Non-positive arguments select the defaults.
func NewLostTracker(maxLost int64, relMax float64) *LostTracker {
	if maxLost <= 0 {
		maxLost = DefaultMaxLost
	}
	if relMax <= 0 {
		relMax = DefaultRelMaxLost
	}
	return &LostTracker{maxLost: maxLost, relMax: relMax}
}

// RecordProcessed counts one transported particle history.
func (t *LostTracker) RecordProcessed() {
	atomic.AddInt64(&t.total, 1)
}

// RecordLost counts one lost particle.
func (t *LostTracker) RecordLost() {
	atomic.AddInt64(&t.lost, 1)
}

// Lost returns the cumulative number of lost particles.
func (t *LostTracker) Lost() int64 {
	return atomic.LoadInt64(&t.lost)
}

// Total returns the cumulative number of particles processed.
func (t *LostTracker) Total() int64 {
	return atomic.LoadInt64(&t.total)
}

// ShouldAbort reports whether the lost count has exceeded the budget:
// max(absolute cap, relative fraction of all particles processed so far).
func (t *LostTracker) ShouldAbort() bool {
	lost := float64(t.Lost())
	budget := float64(t.maxLost)
	if rel := t.relMax * float64(t.Total()); rel > budget {
		budget = rel
	}
	return lost > budget
}
