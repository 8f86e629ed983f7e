package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures requested waits instead of blocking.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTestRetryer(rec *recordingSleep, optFns ...func(o *Options)) *Retryer {
	fns := append([]func(o *Options){func(o *Options) { o.Sleep = rec.sleep }}, optFns...)
	return New(fns...)
}

func TestRetryer_SucceedsFirstAttempt(t *testing.T) {
	rec := &recordingSleep{}
	r := newTestRetryer(rec)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.waits, "no backoff when the first attempt succeeds")
}

func TestRetryer_TwoFailuresThenSuccess(t *testing.T) {
	rec := &recordingSleep{}
	r := newTestRetryer(rec)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.waits)
}

func TestRetryer_ExhaustionReturnsLastError(t *testing.T) {
	rec := &recordingSleep{}
	r := newTestRetryer(rec)

	calls := 0
	last := errors.New("still down")
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("down")
		}
		return last
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, last)
	assert.Len(t, rec.waits, 2)
}

func TestRetryer_BackoffCappedAtMax(t *testing.T) {
	rec := &recordingSleep{}
	r := newTestRetryer(rec, func(o *Options) { o.Attempts = 6 })

	err := r.Do(context.Background(), func(context.Context) error {
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}, rec.waits)
}

func TestRetryer_ContextCancelledDuringBackoff(t *testing.T) {
	r := New(func(o *Options) {
		o.Sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }
	})

	opErr := errors.New("down")
	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return opErr
	})

	assert.Equal(t, 1, calls, "no further attempt after the backoff is interrupted")
	assert.ErrorIs(t, err, opErr, "the operation's failure wins over the cancellation")
}

func TestDoValue_ReturnsResult(t *testing.T) {
	rec := &recordingSleep{}
	r := newTestRetryer(rec)

	calls := 0
	got, err := DoValue(context.Background(), r, func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "event-123", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "event-123", got)
}

func TestDoValue_ZeroValueOnExhaustion(t *testing.T) {
	rec := &recordingSleep{}
	r := newTestRetryer(rec)

	got, err := DoValue(context.Background(), r, func(context.Context) (int, error) {
		return 42, errors.New("down")
	})

	assert.Error(t, err)
	assert.Zero(t, got)
}
