package api

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy computes the wait between attempts of one logical call.
// Whether a failure is retried at all is decided by the executor, never here.
type RetryPolicy struct {
	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration
	// MaxDelay caps the computed delay. Server hints are not capped.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows per attempt.
	Multiplier float64
	// Jitter adds up to Jitter*delay on top of the computed delay. It is
	// clamped to Multiplier-1 so the schedule never decreases.
	Jitter float64
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
	}
}

// normalize fills zero fields with defaults and clamps the rest.
func (p RetryPolicy) normalize() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	p.Jitter = min(max(p.Jitter, 0), p.Multiplier-1)
	return p
}

// Delay returns the wait before the attempt following the given one
// (attempt is 1-based). A server retry-after hint is used verbatim;
// otherwise the delay is BaseDelay*Multiplier^(attempt-1) plus jitter,
// capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int, retryAfter *time.Duration) time.Duration {
	if retryAfter != nil {
		return *retryAfter
	}
	p = p.normalize()
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.Jitter > 0 {
		delay += delay * p.Jitter * rand.Float64()
	}
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	return time.Duration(delay)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
