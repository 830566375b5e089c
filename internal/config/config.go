// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Persistence backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"MercadoLP"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// AccelByte configuration (optional)
	// ============================================================
	// Platform rewards (grant_item, publish_stat) run only when all
	// four values are set. Otherwise those actions are no-ops.
	ABNamespace    string `env:"AB_NAMESPACE"`
	ABBaseURL      string `env:"AB_BASE_URL"`
	ABClientID     string `env:"AB_CLIENT_ID"`
	ABClientSecret string `env:"AB_CLIENT_SECRET"`

	// ============================================================
	// Persistence configuration
	// ============================================================
	PersistenceBackend string        `env:"PERSISTENCE_BACKEND" envDefault:"redis"`
	RedisHost          string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort          string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisMaxRetries    uint64        `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisTTL           time.Duration `env:"REDIS_TTL" envDefault:"720h"`
	DatabaseURL        string        `env:"DATABASE_URL"`

	// ============================================================
	// Game configuration
	// ============================================================
	// ConfigPath points at the unlock pipeline YAML. Empty uses the embedded default.
	ConfigPath      string        `env:"CONFIG_PATH"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"5s"`
	LevelThresholds []int64       `env:"LEVEL_THRESHOLDS" envSeparator:","`
	LeagueSeed      int64         `env:"LEAGUE_SEED" envDefault:"42"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled bool `env:"OTEL_ENABLED" envDefault:"true"`
}

// PlatformEnabled reports whether AccelByte credentials are configured.
func (c *Config) PlatformEnabled() bool {
	return c.ABNamespace != "" && c.ABBaseURL != "" && c.ABClientID != "" && c.ABClientSecret != ""
}
