package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

var _ backoff.BackOff = (*Linear)(nil)

// Linear is a bounded linear backoff: the wait after failed attempt n is
// Base * n, attempts numbered from 1. Once MaxAttempts attempts have been
// consumed it reports backoff.Stop.
type Linear struct {
	base        time.Duration
	maxAttempts int
	attempt     int
}

// NewLinear constructs a Linear policy for maxAttempts total attempts.
func NewLinear(base time.Duration, maxAttempts int) *Linear {
	return &Linear{base: base, maxAttempts: maxAttempts}
}

// NextBackOff returns the wait before the next attempt, or backoff.Stop when
// the attempt budget is exhausted.
func (l *Linear) NextBackOff() time.Duration {
	l.attempt++
	if l.attempt >= l.maxAttempts {
		return backoff.Stop
	}
	return l.base * time.Duration(l.attempt)
}

// Reset rewinds the policy to its initial state.
func (l *Linear) Reset() {
	l.attempt = 0
}
