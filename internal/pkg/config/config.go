package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Login limiter backends.
const (
	LimiterRedis  = "redis"
	LimiterMemory = "memory"
	LimiterOff    = "off"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	Store     string `env:"STORE,      default=mongo"`

	JWT       JWTConfig
	Password  PasswordConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
	Activity  ActivityConfig
}

// JWTConfig holds the signing material. Exactly one of Secret or the
// PrivateKeyPath/PublicKeyPath pair must be set.
type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER, required"`
	Audience       string        `env:"JWT_AUDIENCE, required"`
	Secret         string        `env:"JWT_SECRET"`
	PrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	PublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	UserTTL        time.Duration `env:"JWT_USER_TTL,  default=1h"`
	AdminTTL       time.Duration `env:"JWT_ADMIN_TTL, default=8h"`
}

// UsesRSA reports whether key files were configured instead of a secret.
func (c JWTConfig) UsesRSA() bool {
	return c.PrivateKeyPath != "" || c.PublicKeyPath != ""
}

type PasswordConfig struct {
	Scheme     string `env:"PASSWORD_SCHEME, default=bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST,     default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=authgate"`
}

type PostgresConfig struct {
	Host        string `env:"DB_HOST,         default=localhost"`
	Port        int    `env:"DB_PORT,         default=5432"`
	User        string `env:"DB_USER,         default=authgate"`
	Password    string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME,         default=authgate"`
	UseSSL      bool   `env:"DB_SSL,          default=false"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE, default=true"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type RateLimitConfig struct {
	Backend     string        `env:"LOGIN_LIMITER,      default=redis"`
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type SeedConfig struct {
	Enabled   bool   `env:"SEED_ENABLED, default=true"`
	UsersFile string `env:"SEED_USERS_FILE"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
// In development a .env file in the working directory is loaded first.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		_ = godotenv.Load()
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.JWT.Secret != "" && c.JWT.UsesRSA():
		errs = append(errs, errors.New("set either JWT_SECRET or JWT_PRIVATE_KEY_PATH/JWT_PUBLIC_KEY_PATH, not both"))
	case c.JWT.UsesRSA() && (c.JWT.PrivateKeyPath == "" || c.JWT.PublicKeyPath == ""):
		errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together"))
	case c.JWT.Secret == "" && !c.JWT.UsesRSA():
		errs = append(errs, errors.New("one of JWT_SECRET or JWT_PRIVATE_KEY_PATH/JWT_PUBLIC_KEY_PATH is required"))
	}
	if c.JWT.UserTTL <= 0 || c.JWT.AdminTTL <= 0 {
		errs = append(errs, errors.New("JWT_USER_TTL and JWT_ADMIN_TTL must be positive"))
	}

	c.Store = strings.ToLower(c.Store)
	switch c.Store {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE must be one of mongo, postgres, memory; got %q", c.Store))
	}

	c.RateLimit.Backend = strings.ToLower(c.RateLimit.Backend)
	switch c.RateLimit.Backend {
	case LimiterRedis, LimiterMemory, LimiterOff:
	default:
		errs = append(errs, fmt.Errorf("LOGIN_LIMITER must be one of redis, memory, off; got %q", c.RateLimit.Backend))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
