package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/api"
	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/service"
	"github.com/authgate/authgate/internal/infrastructure/queue"
	"github.com/authgate/authgate/internal/infrastructure/seed"
	"github.com/authgate/authgate/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, log, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		workerCtx, stopWorkers := context.WithCancel(context.Background())
		dispatcher := queue.NewDispatcher(cfg.Activity.Workers,
			service.NewActivityService(a.activity, logger.Component("activity")),
			logger.Component("dispatcher"),
		)
		dispatcher.Start(workerCtx)
		defer func() {
			stopWorkers()
			dispatcher.Wait()
		}()
		metrics.RegisterActivityDropped(prometheus.DefaultRegisterer, func() float64 {
			return float64(dispatcher.Dropped())
		})

		auth := a.authService(dispatcher)
		if cfg.Seed.Enabled {
			if err := runSeed(ctx, a, auth); err != nil {
				return err
			}
		}

		e := api.NewRouter(api.Deps{
			Auth:     auth,
			Tokens:   a.tokens,
			Products: service.NewProductService(a.products, logger.Component("products")),
			Checks:   a.checks,
			Log:      logger.Component("http"),
		})

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Msg("http server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func runSeed(ctx context.Context, a *app, auth *service.AuthService) error {
	accounts := seed.DefaultAccounts()
	if a.cfg.Seed.UsersFile != "" {
		loaded, err := seed.LoadFile(a.cfg.Seed.UsersFile)
		if err != nil {
			return err
		}
		accounts = loaded
	}

	created, err := seed.Run(ctx, auth, accounts, logger.Component("seed"))
	if err != nil {
		return err
	}
	a.log.Info().Int("created", created).Int("configured", len(accounts)).Msg("seed complete")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
