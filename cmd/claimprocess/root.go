package main

import (
	"ClaimProcess/config"
	"ClaimProcess/logging"

	"github.com/spf13/cobra"
)

var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:   "claimprocess",
	Short: "Dental claim ingestion service",
	Long:  "Validates dental insurance claims, computes their net fee, stores them in PostgreSQL and serves the top net fee ranking.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLevel(cfg.LogLevel)
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DBURL, "dsn", cfg.DBURL, "Postgres connection string (or set DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
}
