package worker

import (
	"context"
	"time"

	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Reaper periodically frees wallets whose locks outlived the maximum lock age.
type Reaper struct {
	locks    ports.WalletLockManager
	clock    ports.Clock
	interval time.Duration
	retry    service.RetryPolicy
	log      zerolog.Logger
}

// NewReaper creates a reaper. A nil clock uses the system clock.
func NewReaper(locks ports.WalletLockManager, clock ports.Clock, interval time.Duration, retry service.RetryPolicy, log zerolog.Logger) *Reaper {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Reaper{
		locks:    locks,
		clock:    clock,
		interval: interval,
		retry:    retry,
		log:      log.With().Str("worker", "reaper").Logger(),
	}
}

func (r *Reaper) Name() string            { return "reaper" }
func (r *Reaper) Interval() time.Duration { return r.interval }

func (r *Reaper) RunOnce(ctx context.Context) error {
	ids, err := service.RetryOnConflict(ctx, r.retry, func(ctx context.Context) ([]uuid.UUID, error) {
		return r.locks.ReclaimStaleLocks(ctx, r.clock.Now())
	})
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		r.log.Warn().Int("count", len(ids)).Msg("reclaimed stale wallet locks")
	}
	return nil
}
