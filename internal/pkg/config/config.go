package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr         string        `env:"METRICS_ADDR" envDefault:":9091"`
	Venues              []string      `env:"VENUES" envSeparator:"," envDefault:"Grand Ballroom,Rooftop Terrace,Garden Pavilion,Harbour View Hall"`
	SimulatedDelay      time.Duration `env:"SIMULATED_DELAY" envDefault:"1s"`
	DialogTTL           time.Duration `env:"DIALOG_TTL" envDefault:"30m"`
	DialogSweepInterval time.Duration `env:"DIALOG_SWEEP_INTERVAL" envDefault:"1m"`
	RedisURL            string        `env:"REDIS_URL"` // empty keeps notifications in process
	NotificationChannel string        `env:"NOTIFICATION_CHANNEL" envDefault:"venue-portal:notifications"`
	RateLimitRPS        float64       `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst      int           `env:"RATE_LIMIT_BURST" envDefault:"100"`
	MaxBodyBytes        int64         `env:"MAX_BODY_BYTES" envDefault:"65536"` // 64KB
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SimulatedDelay < 0 {
		return fmt.Errorf("SIMULATED_DELAY must not be negative, got %s", c.SimulatedDelay)
	}
	if c.DialogTTL <= 0 {
		return fmt.Errorf("DIALOG_TTL must be positive, got %s", c.DialogTTL)
	}
	if c.DialogSweepInterval <= 0 {
		return fmt.Errorf("DIALOG_SWEEP_INTERVAL must be positive, got %s", c.DialogSweepInterval)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v rps burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}
