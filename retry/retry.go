// Package retry wraps fallible external-service calls in a bounded
// retry/backoff discipline: a fixed attempt budget with exponential waits
// between attempts, no jitter and no circuit breaker. The backoff sleep
// happens on the calling goroutine, so one slow request never blocks
// another.
package retry

import (
	"context"
	"time"
)

// Defaults mirror the accepted failure model for transient remote-API
// errors: 3 attempts with waits of 2s and 4s between them (8s would follow,
// capped at 10s, but the budget is exhausted first).
const (
	DefaultAttempts   = 3
	DefaultMultiplier = 1
	DefaultMinWait    = 2 * time.Second
	DefaultMaxWait    = 10 * time.Second
)

// Options configures a Retryer.
type Options struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Multiplier scales the exponential base wait.
	Multiplier int
	// MinWait is the wait before the first retry; each subsequent wait
	// doubles until MaxWait.
	MinWait time.Duration
	// MaxWait caps the wait between attempts.
	MaxWait time.Duration
	// Sleep overrides the waiting primitive, for tests. It must honor
	// context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Retryer re-runs an operation until it succeeds, the attempt budget is
// exhausted, or the context is cancelled. The last failure is always
// returned to the caller; nothing is swallowed.
type Retryer struct {
	attempts   int
	multiplier int
	minWait    time.Duration
	maxWait    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// New constructs a Retryer with the default 3-attempt, 2s–10s budget.
func New(optFns ...func(o *Options)) *Retryer {
	opts := Options{
		Attempts:   DefaultAttempts,
		Multiplier: DefaultMultiplier,
		MinWait:    DefaultMinWait,
		MaxWait:    DefaultMaxWait,
		Sleep:      sleepCtx,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &Retryer{
		attempts:   opts.Attempts,
		multiplier: opts.Multiplier,
		minWait:    opts.MinWait,
		maxWait:    opts.MaxWait,
		sleep:      opts.Sleep,
	}
}

// Do runs op until it returns nil or the budget is spent, backing off
// between attempts. Any error triggers a retry; the last error is returned
// after the final attempt.
func (r *Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if lastErr != nil {
			if err := r.sleep(ctx, r.wait(attempt-1)); err != nil {
				return lastErr
			}
		}
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}
		if lastErr = op(ctx); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// DoValue is Do for operations that produce a value. On exhaustion it
// returns the zero value alongside the last error.
func DoValue[T any](ctx context.Context, r *Retryer, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// wait returns the backoff before retry n (1-based): multiplier * min * 2^(n-1),
// capped at max.
func (r *Retryer) wait(n int) time.Duration {
	d := time.Duration(r.multiplier) * r.minWait
	for i := 1; i < n; i++ {
		d *= 2
		if d >= r.maxWait {
			return r.maxWait
		}
	}
	if d > r.maxWait {
		return r.maxWait
	}
	return d
}

// sleepCtx blocks for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
