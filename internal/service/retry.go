package service

import (
	"context"
	"math/rand/v2"
	"time"

	"escrow-wallet-ledger/pkg/apperror"
)

const maxRetryBackoff = time.Second

// RetryPolicy bounds RetryOnConflict. Before retry n (from 1) the caller waits
// Backoff<<(n-1), capped at one second, plus up to half that again as jitter.
// A zero Backoff retries immediately.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Delay returns the wait before retry n, without jitter.
func (p RetryPolicy) Delay(n int) time.Duration {
	if p.Backoff <= 0 || n < 1 {
		return 0
	}
	d := p.Backoff
	for i := 1; i < n && d < maxRetryBackoff; i++ {
		d *= 2
	}
	return min(d, maxRetryBackoff)
}

// RetryOnConflict runs fn until it succeeds, fails with anything other than a
// serialization conflict, or attempts are used up. The whole operation is retried,
// never a partial one. Waiting between attempts ends early when ctx is done.
func RetryOnConflict[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := max(policy.Attempts, 1)

	var (
		result T
		err    error
	)
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if waitErr := sleepCtx(ctx, jitter(policy.Delay(i))); waitErr != nil {
				return result, err
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err == nil {
				err = apperror.ErrStoreUnavailable(ctxErr)
			}
			return result, err
		}
		result, err = fn(ctx)
		if err == nil || !apperror.IsConflict(err) {
			return result, err
		}
	}
	return result, err
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + rand.N(d/2+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
