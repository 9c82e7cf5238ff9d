package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpHandler "escrow-wallet-ledger/internal/adapter/http/handler"
	redisStorage "escrow-wallet-ledger/internal/adapter/storage/redis"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/internal/worker"

	"github.com/spf13/cobra"
)

var serveWithWorkers bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for credit reservations, buyer balances and wallet release.

Use --workers to run the reconciliation workers in the same process. This is
required with the memory store driver, whose state is not shared between processes.`,
		RunE: runServe,
	}

	cmd.Flags().BoolVar(&serveWithWorkers, "workers", false, "Also run reconciliation workers and the reaper")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	log.Info().
		Str("mode", a.cfg.Server.Mode).
		Str("store", a.cfg.Store.Driver).
		Int("port", a.cfg.Server.Port).
		Msg("Starting escrow wallet ledger API")

	var nonces ports.NonceStore
	var limits *redisStorage.RateLimitStore
	if a.rdb != nil {
		nonces = redisStorage.NewNonceStore(a.rdb)
		limits = redisStorage.NewRateLimitStore(a.rdb)
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Ledger:         a.ledger,
		Locks:          a.locks,
		APISecret:      a.cfg.API.Secret,
		NonceStore:     nonces,
		RateLimitStore: limits,
		HTTPMetrics:    a.metrics,
		MetricsHandler: a.metrics.Handler(),
		HealthCheckers: a.health,
		Retry:          retryPolicy(a.cfg),
		Logger:         log,
	})

	workersDone := make(chan struct{})
	if serveWithWorkers {
		sub, err := a.newSubmitter()
		if err != nil {
			return err
		}
		workers, err := buildWorkers(a.cfg, a.locks, sub, log)
		if err != nil {
			return err
		}
		go func() {
			defer close(workersDone)
			worker.NewGroup(log, workers...).Run(ctx)
		}()
	} else {
		close(workersDone)
	}

	// HTTP Server with graceful shutdown
	addr := a.cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workersDone
			return err
		}
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	<-workersDone

	log.Info().Msg("Server exited")
	return nil
}
