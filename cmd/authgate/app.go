package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/core/ports"
	"github.com/authgate/authgate/internal/core/service"
	"github.com/authgate/authgate/internal/infrastructure/db/memory"
	"github.com/authgate/authgate/internal/infrastructure/db/mongo"
	"github.com/authgate/authgate/internal/infrastructure/db/postgres"
	"github.com/authgate/authgate/internal/infrastructure/db/redis"
	"github.com/authgate/authgate/internal/pkg/config"
	"github.com/authgate/authgate/pkg/logger"
)

// app holds the wired stores and services shared by the subcommands.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	users    ports.CredentialStore
	products ports.ProductRepository
	activity ports.ActivityRepository
	limiter  ports.LoginLimiter
	checks   map[string]handler.Check

	tokens *service.TokenService
	hasher *service.PasswordHasher

	closers []func(context.Context) error
}

func loadConfig(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "authgate",
	})
	return cfg, log, nil
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, checks: map[string]handler.Check{}}

	signing, err := signingConfig(cfg.JWT)
	if err != nil {
		return nil, err
	}
	a.tokens = service.NewTokenService(signing, service.WithTokenTTLs(cfg.JWT.UserTTL, cfg.JWT.AdminTTL))

	a.hasher, err = service.NewPasswordHasher(cfg.Password.Scheme, service.WithBcryptCost(cfg.Password.BcryptCost))
	if err != nil {
		return nil, err
	}

	if err := a.openStore(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	if err := a.openLimiter(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}

	log.Info().
		Str("store", cfg.Store).
		Str("limiter", cfg.RateLimit.Backend).
		Str("alg", signing.Algorithm()).
		Str("password_scheme", a.hasher.Scheme()).
		Msg("dependencies ready")
	return a, nil
}

func signingConfig(cfg config.JWTConfig) (service.SigningConfig, error) {
	if !cfg.UsesRSA() {
		return service.NewHMACSigningConfig([]byte(cfg.Secret), cfg.Issuer, cfg.Audience)
	}

	priv, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return service.SigningConfig{}, fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return service.SigningConfig{}, fmt.Errorf("read public key: %w", err)
	}
	return service.NewRSASigningConfig(priv, pub, cfg.Issuer, cfg.Audience)
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreMemory:
		a.users = memory.NewUserRepository()
		a.products = memory.NewProductRepository()
		a.activity = memory.NewActivityRepository()
		a.log.Warn().Msg("using in-memory store, data is lost on exit")
		return nil

	case config.StorePostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			Host:     a.cfg.Postgres.Host,
			Port:     a.cfg.Postgres.Port,
			User:     a.cfg.Postgres.User,
			Password: a.cfg.Postgres.Password,
			DBName:   a.cfg.Postgres.DBName,
			UseSSL:   a.cfg.Postgres.UseSSL,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		if a.cfg.Postgres.AutoMigrate {
			if err := postgres.MigrateUp(db); err != nil {
				return err
			}
		}
		a.usePostgres(db)
		return nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
			AppName:  "authgate",
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		a.useMongo(db)
		return nil
	}
}

func (a *app) usePostgres(db *sql.DB) {
	a.users = postgres.NewUserRepository(db)
	a.products = postgres.NewProductRepository(db)
	a.activity = postgres.NewActivityRepository(db)
	a.checks["postgres"] = handler.SQLCheck(db)
}

func (a *app) useMongo(db *mongodriver.Database) {
	a.users = mongo.NewUserRepository(db)
	a.products = mongo.NewProductRepository(db)
	a.activity = mongo.NewActivityRepository(db)
	a.checks["mongo"] = handler.MongoCheck(db)
}

func (a *app) openLimiter(ctx context.Context) error {
	rl := a.cfg.RateLimit
	switch rl.Backend {
	case config.LimiterOff:
		return nil
	case config.LimiterMemory:
		limiter := memory.NewLoginLimiter(rl.MaxAttempts, rl.Window)
		a.closers = append(a.closers, func(context.Context) error { limiter.Close(); return nil })
		a.limiter = limiter
		return nil
	default:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
			PoolSize: a.cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.limiter = redis.NewLoginLimiter(client, rl.MaxAttempts, rl.Window)
		a.checks["redis"] = handler.RedisCheck(client)
		return nil
	}
}

// authService builds the orchestrator with the optional collaborators that
// were configured.
func (a *app) authService(recorder service.ActivityRecorder) *service.AuthService {
	opts := []service.AuthOption{service.WithLogger(logger.Component("auth"))}
	if a.limiter != nil {
		opts = append(opts, service.WithLoginLimiter(a.limiter))
	}
	if recorder != nil {
		opts = append(opts, service.WithActivityRecorder(recorder))
	}
	return service.NewAuthService(a.users, a.hasher, a.tokens, opts...)
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close dependency")
		}
	}
	a.closers = nil
}
