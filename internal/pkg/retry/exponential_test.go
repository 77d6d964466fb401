package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	r := New(testConfig())

	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecute_RetriesTransientFailure(t *testing.T) {
	r := New(testConfig())

	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_ExhaustsRetries(t *testing.T) {
	r := New(testConfig())

	transient := errors.New("still down")
	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return transient
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 4, calls) // initial attempt plus three retries
}

func TestExecute_NonRetryableStopsImmediately(t *testing.T) {
	cfg := testConfig()
	business := errors.New("trip already accepted")
	cfg.RetryableFunc = func(err error) bool {
		return !errors.Is(err, business)
	}
	r := New(cfg)

	calls := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return business
	})

	assert.ErrorIs(t, err, business)
	assert.Equal(t, 1, calls)
}

func TestExecute_ContextCancelled(t *testing.T) {
	r := New(testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Execute(ctx, func(ctx context.Context) error {
		return errors.New("never retried")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
