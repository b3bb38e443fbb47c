package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	// Timezone defines the calendar day used for attendance and risk.
	Timezone string `env:"TIMEZONE,  default=UTC"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Presence PresenceConfig
	Workers  WorkerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=site_presence"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type PresenceConfig struct {
	LocateTimeout time.Duration `env:"GEO_LOCATE_TIMEOUT, default=10s"`
	// MaxAccuracyM rejects device fixes coarser than this many metres. 0 disables.
	MaxAccuracyM    float64       `env:"GEO_MAX_ACCURACY_M, default=0"`
	CheckInGuardTTL time.Duration `env:"CHECKIN_GUARD_TTL,  default=30s"`
}

type WorkerConfig struct {
	QueueWorkers    int `env:"QUEUE_WORKERS,     default=8"`
	RiskMaxParallel int `env:"RISK_MAX_PARALLEL, default=8"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
