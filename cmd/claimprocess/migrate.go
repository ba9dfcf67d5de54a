package main

import (
	"ClaimProcess/database"
	"ClaimProcess/logging"
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DBURL == "" {
		return errors.New("--dsn or DB_URL is required")
	}

	db, err := database.InitDB(ctx, cfg.DBURL, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
