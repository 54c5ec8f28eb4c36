package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, MaxBackoff: time.Millisecond}

	t.Run("Success on first attempt", func(t *testing.T) {
		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Terminal errors are not retried", func(t *testing.T) {
		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			return apperr.ErrInsufficientFunds
		})
		assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
		assert.Equal(t, 1, calls)
	})

	t.Run("Exhausted conflicts become contention", func(t *testing.T) {
		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			return ErrConflict
		})
		assert.ErrorIs(t, err, apperr.ErrContention)
		assert.True(t, apperr.Retryable(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("Cancelled context stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryPolicy{MaxAttempts: 10, MaxBackoff: time.Hour}
		calls := 0
		err := slow.Do(ctx, func(context.Context) error {
			calls++
			cancel()
			return ErrConflict
		})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, calls)
	})
}
