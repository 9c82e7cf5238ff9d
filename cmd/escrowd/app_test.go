package main

import (
	"testing"
	"time"

	"escrow-wallet-ledger/config"
	"escrow-wallet-ledger/internal/core/ports/mocks"
	"escrow-wallet-ledger/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func workersConfig() *config.Config {
	return &config.Config{
		Lock: config.LockConfig{MaxLockAge: 30 * time.Minute, ConflictRetries: 3},
		Workers: config.WorkersConfig{
			PaymentInterval:    20 * time.Second,
			RegistryInterval:   30 * time.Second,
			CollateralInterval: 30 * time.Second,
			ReaperInterval:     time.Minute,
			PaymentActions:     []string{"FUNDS_LOCKING_REQUESTED", "SUBMIT_RESULT_REQUESTED"},
			RegistryStates:     []string{"REGISTRATION_REQUESTED"},
		},
	}
}

func workerNames(t *testing.T, cfg *config.Config) map[string]time.Duration {
	t.Helper()
	ctrl := gomock.NewController(t)
	workers, err := buildWorkers(cfg, mocks.NewMockWalletLockManager(ctrl), mocks.NewMockTransactionSubmitter(ctrl), zerolog.Nop())
	require.NoError(t, err)

	names := make(map[string]time.Duration, len(workers))
	for _, w := range workers {
		names[w.Name()] = w.Interval()
	}
	return names
}

func TestBuildWorkers(t *testing.T) {
	names := workerNames(t, workersConfig())

	assert.Equal(t, map[string]time.Duration{
		"payment:FUNDS_LOCKING_REQUESTED": 20 * time.Second,
		"payment:SUBMIT_RESULT_REQUESTED": 20 * time.Second,
		"registry:REGISTRATION_REQUESTED": 30 * time.Second,
		"collateral":                      30 * time.Second,
		"reaper":                          time.Minute,
	}, names)
}

func TestBuildWorkers_ReaperDisabled(t *testing.T) {
	cfg := workersConfig()
	cfg.Lock.MaxLockAge = 0

	names := workerNames(t, cfg)
	assert.NotContains(t, names, "reaper")
	assert.Contains(t, names, "collateral")
}

func TestBuildWorkers_RejectsNoneAction(t *testing.T) {
	cfg := workersConfig()
	cfg.Workers.PaymentActions = []string{"NONE"}

	ctrl := gomock.NewController(t)
	_, err := buildWorkers(cfg, mocks.NewMockWalletLockManager(ctrl), mocks.NewMockTransactionSubmitter(ctrl), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers.payment_actions")
}

func TestNewSubmitter_RequiresURL(t *testing.T) {
	a := &app{cfg: &config.Config{}, log: zerolog.Nop()}
	_, err := a.newSubmitter()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submitter.url")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := rootCmd
	root.AddCommand(newServeCmd(), newWorkCmd(), newMigrateCmd())

	for _, name := range []string{"serve", "work", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRetryPolicy_FromLockConfig(t *testing.T) {
	cfg := workersConfig()
	cfg.Lock.ConflictBackoff = 40 * time.Millisecond

	assert.Equal(t, service.RetryPolicy{Attempts: 3, Backoff: 40 * time.Millisecond}, retryPolicy(cfg))
}
