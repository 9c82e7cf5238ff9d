package main

import (
	"os/signal"
	"syscall"

	"escrow-wallet-ledger/internal/worker"

	"github.com/spf13/cobra"
)

func newWorkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Run reconciliation workers and the stale-lock reaper",
		Long: `Run one reconciler per configured payment action and registry state, one
for collateral top-ups, and the stale-lock reaper. Claimed batches are posted to
submitter.url. Several instances may run against the same PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			sub, err := a.newSubmitter()
			if err != nil {
				return err
			}
			workers, err := buildWorkers(a.cfg, a.locks, sub, a.log)
			if err != nil {
				return err
			}

			a.log.Info().Int("workers", len(workers)).Str("store", a.cfg.Store.Driver).Msg("Starting workers")
			worker.NewGroup(a.log, workers...).Run(ctx)
			a.log.Info().Msg("Workers exited")
			return nil
		},
	}
}
