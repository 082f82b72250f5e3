// Package backoff computes exponential retry delays with additive jitter.
package backoff

import (
	"context"
	"math/rand/v2"
	"time"
)

// Policy defines how many times a failed call is retried and how long to wait in between.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// BaseDelay is the wait before retry 0; it doubles for every retry.
	BaseDelay time.Duration
	// MaxJitter bounds the uniform random delay added to every wait (exclusive).
	MaxJitter time.Duration
}

// DefaultPolicy returns 5 retries waiting 1s, 2s, 4s, 8s and 16s, each plus up to 500ms.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxJitter:  500 * time.Millisecond,
	}
}

// Attempts returns the total number of calls the policy allows.
func (p Policy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// ShouldRetry reports whether another call is allowed after attempt (0-indexed) failed.
func (p Policy) ShouldRetry(attempt int) bool {
	return attempt < p.MaxRetries
}

// Delay returns the wait before retry number retry (0-indexed):
// BaseDelay * 2^retry + U[0, MaxJitter). A nil rng uses the global source.
func (p Policy) Delay(retry int, rng *rand.Rand) time.Duration {
	if retry < 0 {
		retry = 0
	}
	delay := p.BaseDelay << uint(retry)
	if p.MaxJitter > 0 {
		if rng != nil {
			delay += time.Duration(rng.Int64N(int64(p.MaxJitter)))
		} else {
			delay += time.Duration(rand.Int64N(int64(p.MaxJitter)))
		}
	}
	return delay
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the timer-backed SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
