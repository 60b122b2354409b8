package main

import (
	"context"

	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default or file-defined accounts and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		if seedFile != "" {
			cfg.Seed.UsersFile = seedFile
		}

		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		return runSeed(cmd.Context(), a, a.authService(nil))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML users file (overrides SEED_USERS_FILE)")
}
