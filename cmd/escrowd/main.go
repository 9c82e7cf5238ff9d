package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "escrowd",
	Short: "Escrow hot-wallet lock manager and buyer credit ledger",
	Long: `escrowd leases hot wallets to escrow payment workloads and keeps the
buyer credit ledger.

  serve    HTTP API for credit reservations and wallet release
  work     reconciliation workers and the stale-lock reaper
  migrate  apply the PostgreSQL schema`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./config.yaml or ./config/config.yaml)")
}

func main() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWorkCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
