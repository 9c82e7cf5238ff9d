// Package worker runs the periodic jobs that drive the lock manager:
// one reconciler per workload plus the stale-lock reaper.
package worker

import (
	"context"
	"errors"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/internal/service"

	"github.com/rs/zerolog"
)

// Worker is a periodic job.
type Worker interface {
	Name() string
	// RunOnce performs one cycle.
	RunOnce(ctx context.Context) error
	Interval() time.Duration
}

// ReconcilerConfig configures one reconciliation loop.
type ReconcilerConfig struct {
	Name     string
	Workload domain.Workload
	Interval time.Duration
	Retry    service.RetryPolicy
}

// Reconciler claims wallets for one workload and hands each source batch to the submitter.
type Reconciler struct {
	cfg       ReconcilerConfig
	locks     ports.WalletLockManager
	submitter ports.TransactionSubmitter
	clock     ports.Clock
	log       zerolog.Logger
}

// NewReconciler creates a reconciler. A nil clock uses the system clock.
func NewReconciler(cfg ReconcilerConfig, locks ports.WalletLockManager, submitter ports.TransactionSubmitter, clock ports.Clock, log zerolog.Logger) *Reconciler {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Workload.String()
	}
	return &Reconciler{
		cfg:       cfg,
		locks:     locks,
		submitter: submitter,
		clock:     clock,
		log:       log.With().Str("worker", cfg.Name).Logger(),
	}
}

func (r *Reconciler) Name() string            { return r.cfg.Name }
func (r *Reconciler) Interval() time.Duration { return r.cfg.Interval }

// RunOnce acquires one batch and submits it source by source. Claims of a
// source whose submission fails are released as abandoned so the wallets
// are free for the next cycle.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	batch, err := service.RetryOnConflict(ctx, r.cfg.Retry, func(ctx context.Context) (domain.Batch, error) {
		return r.locks.AcquireBatch(ctx, r.cfg.Workload, r.clock.Now())
	})
	if err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}

	var errs []error
	for _, sb := range batch {
		if err := r.submitter.Submit(ctx, sb); err != nil {
			r.log.Error().Err(err).
				Str("source_id", sb.Source.ID.String()).
				Int("claims", len(sb.Claims)).
				Msg("submit failed, abandoning claims")
			r.abandon(ctx, sb)
			errs = append(errs, err)
			continue
		}
		r.log.Debug().
			Str("source_id", sb.Source.ID.String()).
			Int("claims", len(sb.Claims)).
			Msg("batch submitted")
	}
	return errors.Join(errs...)
}

func (r *Reconciler) abandon(ctx context.Context, sb domain.SourceBatch) {
	// Release must run even when the cycle was cancelled mid-submit.
	ctx = context.WithoutCancel(ctx)
	for _, c := range sb.Claims {
		_, err := service.RetryOnConflict(ctx, r.cfg.Retry, func(ctx context.Context) (*domain.HotWallet, error) {
			return r.locks.Release(ctx, c.Wallet.ID, domain.OutcomeAbandoned(c.LockID))
		})
		if err != nil {
			r.log.Error().Err(err).Str("wallet_id", c.Wallet.ID.String()).Msg("failed to release abandoned claim")
		}
	}
}
