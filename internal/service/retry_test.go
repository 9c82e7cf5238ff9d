package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"escrow-wallet-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConflict = apperror.ErrSerializationConflict(errors.New("40001"))

func TestRetryOnConflict(t *testing.T) {
	calls := 0
	got, err := RetryOnConflict(context.Background(), RetryPolicy{Attempts: 3}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errConflict
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = RetryOnConflict(context.Background(), RetryPolicy{Attempts: 2}, func(context.Context) (int, error) {
		calls++
		return 0, errConflict
	})
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 2, calls)

	calls = 0
	_, err = RetryOnConflict(context.Background(), RetryPolicy{Attempts: 5}, func(context.Context) (int, error) {
		calls++
		return 0, apperror.ErrInsufficientFunds()
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientFunds))
	assert.Equal(t, 1, calls, "business errors are not retried")

	calls = 0
	_, err = RetryOnConflict(context.Background(), RetryPolicy{}, func(context.Context) (int, error) {
		calls++
		return 0, errConflict
	})
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 1, calls, "zero attempts still runs once")
}

func TestRetryOnConflict_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryOnConflict(ctx, RetryPolicy{Attempts: 5}, func(context.Context) (int, error) {
		calls++
		return 0, nil
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeStoreUnavailable))
	assert.Equal(t, 0, calls)
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{Attempts: 10, Backoff: 10 * time.Millisecond}
	assert.Equal(t, time.Duration(0), p.Delay(0))
	assert.Equal(t, 10*time.Millisecond, p.Delay(1))
	assert.Equal(t, 20*time.Millisecond, p.Delay(2))
	assert.Equal(t, 40*time.Millisecond, p.Delay(3))
	assert.Equal(t, time.Second, p.Delay(20), "capped")
	assert.Equal(t, time.Duration(0), RetryPolicy{Attempts: 3}.Delay(2))
}

func TestRetryOnConflict_WaitsBetweenAttempts(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Backoff: 20 * time.Millisecond}

	var at []time.Time
	_, err := RetryOnConflict(context.Background(), policy, func(context.Context) (int, error) {
		at = append(at, time.Now())
		return 0, errConflict
	})
	assert.True(t, apperror.IsConflict(err))
	require.Len(t, at, 3)
	assert.GreaterOrEqual(t, at[1].Sub(at[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, at[2].Sub(at[1]), 40*time.Millisecond)
}

func TestRetryOnConflict_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	_, err := RetryOnConflict(ctx, RetryPolicy{Attempts: 5, Backoff: time.Second}, func(context.Context) (int, error) {
		calls++
		return 0, errConflict
	})
	assert.True(t, apperror.IsConflict(err), "last attempt's error is returned")
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "wait must end with the context")
}
