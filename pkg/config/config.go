package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied by envconfig when resolving struct tags.
const EnvPrefix = "CARDSCAN"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Names of the environment variables tests and tooling need to reference.
const (
	EnvAppEnv   = "CARDSCAN_APP_ENV"
	EnvPort     = "CARDSCAN_APP_PORT"
	EnvDBDSN    = "CARDSCAN_DB_DSN"
	EnvRedisURL = "CARDSCAN_REDIS_URL"
	EnvPSAToken = "CARDSCAN_PSA_ACCESS_TOKEN"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	PSA          PSAConfig
	Orders       OrdersConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DB.DSN == "" && !cfg.FeatureFlags.UseSQLite {
		return nil, fmt.Errorf("%s is required unless sqlite is enabled", EnvDBDSN)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARDSCAN_APP_ENV" required:"true"`
	Port         string `envconfig:"CARDSCAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARDSCAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARDSCAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"CARDSCAN_DB_DSN"`
	SQLitePath string `envconfig:"CARDSCAN_SQLITE_PATH" default:"cardscanner.db"`

	MaxOpenConns    int           `envconfig:"CARDSCAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARDSCAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARDSCAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARDSCAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARDSCAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARDSCAN_REDIS_ADDR"`
	Password     string        `envconfig:"CARDSCAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARDSCAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARDSCAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARDSCAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARDSCAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARDSCAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARDSCAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PSAConfig points at the PSA public certification API.
type PSAConfig struct {
	BaseURL     string        `envconfig:"CARDSCAN_PSA_BASE_URL" default:"https://api.psacard.com/publicapi"`
	AccessToken string        `envconfig:"CARDSCAN_PSA_ACCESS_TOKEN"`
	Timeout     time.Duration `envconfig:"CARDSCAN_PSA_TIMEOUT" default:"10s"`
	CacheTTL    time.Duration `envconfig:"CARDSCAN_PSA_CACHE_TTL" default:"24h"`
}

type OrdersConfig struct {
	SessionTTL time.Duration `envconfig:"CARDSCAN_ORDER_SESSION_TTL" default:"4h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARDSCAN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARDSCAN_AUTO_MIGRATE" default:"false"`
}
