package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	QuotaStoreMemory   = "memory"
	QuotaStoreRedis    = "redis"
	QuotaStorePostgres = "postgres"
)

type Config struct {
	App      App
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Wheel    Wheel
	PrizeAPI PrizeAPI
	Auth     Auth
	Quota    Quota
	Postgres Postgres
	Redis    Redis
	Bot      Bot
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"luckywheel"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Wheel struct {
	MaxSpins         int           `env:"WHEEL_MAX_SPINS" envDefault:"3"`
	RecoveryInterval time.Duration `env:"WHEEL_RECOVERY_INTERVAL" envDefault:"1h"`
	SpinDuration     time.Duration `env:"WHEEL_SPIN_DURATION" envDefault:"5s"`
	MinTurns         int           `env:"WHEEL_MIN_TURNS" envDefault:"8"`
	MaxTurns         int           `env:"WHEEL_MAX_TURNS" envDefault:"15"`
	ResolveTimeout   time.Duration `env:"WHEEL_RESOLVE_TIMEOUT" envDefault:"15s"`
	CatalogFile      string        `env:"WHEEL_CATALOG_FILE"`
}

type PrizeAPI struct {
	SpinURL        string        `env:"PRIZE_API_SPIN_URL,required"`
	WalletURL      string        `env:"PRIZE_API_WALLET_URL"`
	LogFieldMaxLen int           `env:"PRIZE_API_LOG_FIELD_MAX_LEN" envDefault:"4096"`
	WalletCacheTTL time.Duration `env:"WALLET_CACHE_TTL" envDefault:"30s"`
}

type Auth struct {
	JWTSecret  string `env:"AUTH_JWT_SECRET,required" json:"-"`
	AdminToken string `env:"AUTH_ADMIN_TOKEN" json:"-"`
}

type Quota struct {
	Store string `env:"QUOTA_STORE" envDefault:"memory"`
}

// Postgres хранилище квот при QUOTA_STORE=postgres, схема в migrations/.
type Postgres struct {
	DSN             string        `env:"PG_DSN" json:"-"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type Redis struct {
	Address        string `env:"REDIS_ADDRESS"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize       int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

type Bot struct {
	Token     string          `env:"BOT_TOKEN" json:"-"`
	ChatID    int64           `env:"BOT_CHAT_ID"`
	AdminID   int64           `env:"BOT_ADMIN_ID"`
	MinAmount decimal.Decimal `env:"ANNOUNCE_MIN_AMOUNT" envDefault:"0"`
}

// AnnouncementsEnabled выигрыши публикуются в чат через очередь asynq на Redis.
func (c Config) AnnouncementsEnabled() bool {
	return c.Bot.Token != "" && c.Bot.ChatID != 0 && c.Redis.Address != ""
}

// AdminBotEnabled админ-бот принимает команды только от BOT_ADMIN_ID.
func (c Config) AdminBotEnabled() bool {
	return c.Bot.Token != "" && c.Bot.AdminID != 0
}

func (c Config) Validate() error {
	var errs []error

	switch c.Quota.Store {
	case QuotaStoreMemory:
	case QuotaStoreRedis:
		if c.Redis.Address == "" {
			errs = append(errs, errors.New("REDIS_ADDRESS is required for redis quota store"))
		}
	case QuotaStorePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("PG_DSN is required for postgres quota store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown QUOTA_STORE %q", c.Quota.Store))
	}

	if c.Wheel.MaxSpins < 1 {
		errs = append(errs, fmt.Errorf("WHEEL_MAX_SPINS must be positive, got %d", c.Wheel.MaxSpins))
	}

	if c.Wheel.RecoveryInterval <= 0 {
		errs = append(errs, errors.New("WHEEL_RECOVERY_INTERVAL must be positive"))
	}

	if c.Wheel.SpinDuration <= 0 {
		errs = append(errs, errors.New("WHEEL_SPIN_DURATION must be positive"))
	}

	if c.Wheel.MinTurns < 0 || c.Wheel.MaxTurns < c.Wheel.MinTurns {
		errs = append(errs, fmt.Errorf("invalid turns range [%d, %d]", c.Wheel.MinTurns, c.Wheel.MaxTurns))
	}

	return errors.Join(errs...)
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Validate: %w", err)
	}

	return config, nil
}
