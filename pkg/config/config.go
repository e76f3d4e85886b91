package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the storefront service configuration, loaded from the
// environment.
type Config struct {
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"storefront-state"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8084"`

	// SnapshotBackend selects the durable medium for store snapshots:
	// memory, file, redis or postgres.
	SnapshotBackend string `env:"SNAPSHOT_BACKEND" envDefault:"file"`
	SnapshotDir     string `env:"SNAPSHOT_DIR" envDefault:"./data"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"storefrontdb"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// KafkaBrokers is optional; when empty, mutation events are not published.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	JaegerEndpoint string `env:"JAEGER_ENDPOINT" envDefault:"http://localhost:14268/api/traces"`
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
