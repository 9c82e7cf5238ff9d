package main

import (
	"context"
	"fmt"
	"net/http"

	"escrow-wallet-ledger/config"
	"escrow-wallet-ledger/internal/adapter/metrics"
	"escrow-wallet-ledger/internal/adapter/storage/memory"
	pgStorage "escrow-wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "escrow-wallet-ledger/internal/adapter/storage/redis"
	"escrow-wallet-ledger/internal/adapter/submitter"
	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/internal/service"
	"escrow-wallet-ledger/internal/worker"
	"escrow-wallet-ledger/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds the process-wide dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	pool    *pgxpool.Pool
	rdb     *goredis.Client
	metrics *metrics.Prometheus

	transactor ports.Transactor
	locks      *service.LockManager
	ledger     *service.CreditLedgerService
	health     []ports.HealthChecker
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Pretty), nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewPrometheus(cfg.Metrics.Namespace),
	}

	// Initialize store
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, state is lost on exit")
		a.transactor = memory.New()
	default:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		a.pool = pool
		a.transactor = pgStorage.NewTransactor(pool)
		a.health = append(a.health, pgStorage.NewHealthCheck(pool))
	}

	// Initialize Redis client
	var cache ports.CreditEntryCache
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		a.rdb = rdb
		cache = redisStorage.NewEntryCache(rdb)
		a.health = append(a.health, redisStorage.NewHealthCheck(rdb))
	}

	// Initialize core services
	a.locks = service.NewLockManager(a.transactor, a.metrics, service.LockManagerOptions{
		MaxLockAge: cfg.Lock.MaxLockAge,
		TxTimeout:  cfg.Lock.TxTimeout,
	}, logger.Component(log, "lock_manager"))
	a.ledger = service.NewCreditLedgerService(
		a.transactor,
		cache,
		ports.SystemClock{},
		a.metrics,
		cfg.Lock.TxTimeout,
		logger.Component(log, "credit_ledger"),
	)

	return a, nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *app) newSubmitter() (*submitter.HTTPSubmitter, error) {
	sc := a.cfg.Submitter
	if sc.URL == "" {
		return nil, fmt.Errorf("submitter.url is required to run workers")
	}
	return submitter.NewHTTPSubmitter(submitter.Options{
		URL:      sc.URL,
		Secret:   sc.Secret,
		Attempts: sc.Attempts,
		Backoff:  sc.Backoff,
	}, &http.Client{Timeout: sc.Timeout}, logger.Component(a.log, "submitter"))
}

func retryPolicy(cfg *config.Config) service.RetryPolicy {
	return service.RetryPolicy{Attempts: cfg.Lock.ConflictRetries, Backoff: cfg.Lock.ConflictBackoff}
}

// buildWorkers creates one reconciler per configured payment action and registry
// state, one for collateral, and the reaper when stale-lock reclaiming is enabled.
func buildWorkers(cfg *config.Config, locks ports.WalletLockManager, sub ports.TransactionSubmitter, log zerolog.Logger) ([]worker.Worker, error) {
	retry := retryPolicy(cfg)
	var workers []worker.Worker

	for _, action := range cfg.Workers.PaymentActions {
		wl := domain.PaymentWorkload(domain.PaymentAction(action))
		if err := wl.Validate(); err != nil {
			return nil, fmt.Errorf("workers.payment_actions: %w", err)
		}
		workers = append(workers, worker.NewReconciler(worker.ReconcilerConfig{
			Name:     wl.String(),
			Workload: wl,
			Interval: cfg.Workers.PaymentInterval,
			Retry:    retry,
		}, locks, sub, nil, log))
	}

	for _, state := range cfg.Workers.RegistryStates {
		wl := domain.RegistryWorkload(domain.RegistrationState(state))
		if err := wl.Validate(); err != nil {
			return nil, fmt.Errorf("workers.registry_states: %w", err)
		}
		workers = append(workers, worker.NewReconciler(worker.ReconcilerConfig{
			Name:     wl.String(),
			Workload: wl,
			Interval: cfg.Workers.RegistryInterval,
			Retry:    retry,
		}, locks, sub, nil, log))
	}

	collateral := domain.CollateralWorkload()
	workers = append(workers, worker.NewReconciler(worker.ReconcilerConfig{
		Name:     collateral.String(),
		Workload: collateral,
		Interval: cfg.Workers.CollateralInterval,
		Retry:    retry,
	}, locks, sub, nil, log))

	if cfg.Lock.MaxLockAge > 0 {
		workers = append(workers, worker.NewReaper(locks, nil, cfg.Workers.ReaperInterval, retry, log))
	} else {
		log.Warn().Msg("lock.max_lock_age is 0, stale-lock reaper disabled")
	}

	return workers, nil
}
