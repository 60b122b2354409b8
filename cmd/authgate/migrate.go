package main

import (
	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/infrastructure/db/postgres"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (postgres store)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		db, err := postgres.Open(cmd.Context(), postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			UseSSL:   cfg.Postgres.UseSSL,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.MigrateUp(db); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Postgres.DBName).Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
}
