package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"psephos"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`

	// PostgresDSN wins when set; otherwise the gorm sqlite driver opens
	// SQLitePath, which keeps local runs and CI dependency-free.
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"psephos.db"`

	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	EnableOutboxRelay  bool          `envconfig:"ENABLE_OUTBOX_RELAY" default:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
