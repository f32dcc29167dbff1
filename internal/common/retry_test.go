package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryOptions(attempts int) RetryOptions {
	return RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return nil
	}, fastRetryOptions(3))

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastRetryOptions(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("always fails")
	}, fastRetryOptions(3))

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	fatal := &RetryableError{Err: errors.New("bad request"), Retryable: false}
	err := WithRetry(context.Background(), func() error {
		calls++
		return fatal
	}, fastRetryOptions(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("failing")
	}, fastRetryOptions(5))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
