package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
)

const (
	DefaultMaxAttempts = 5
	DefaultMaxBackoff  = 200 * time.Millisecond
)

// RetryPolicy bounds how often a conflicting transaction is re-run.
type RetryPolicy struct {
	MaxAttempts int
	MaxBackoff  time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, MaxBackoff: DefaultMaxBackoff}
}

// Do runs fn until it succeeds, fails with something other than ErrConflict,
// or the attempts are used up. Exhaustion is reported as apperr.ErrContention.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	maxBackoff := p.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = DefaultMaxBackoff
	}
	backoff := retry.NewExponentialJitterBackoff(maxBackoff)

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("%w: gave up after %d attempts: %w", apperr.ErrContention, attempt, err)
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		delay, derr := backoff.BackoffDelay(attempt, err)
		if derr != nil {
			return fmt.Errorf("%w: %w", apperr.ErrContention, derr)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
