package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "FXI"

// Config holds application configuration from env
type Config struct {
	DataDir       string        `envconfig:"DATA_DIR" default:"data" validate:"required"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error"` // trace | debug | info | warn | error
	Timezone      string        `envconfig:"TIMEZONE" default:"America/New_York" validate:"required"`
	FXTOffset     time.Duration `envconfig:"FXT_OFFSET" default:"7h" validate:"gte=-24h,lte=24h"`
	PathCacheSize int           `envconfig:"PATH_CACHE_SIZE" default:"128" validate:"gte=1"`
	MetricsFile   string        `envconfig:"METRICS_FILE"`
}

// LoadConfig reads config from environment. A .env file in the working
// directory is loaded first when present; real env vars win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
