// Package config loads service settings from RETAIL_* environment variables.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appID = "retail"

type Config struct {
	HTTPAddress       string `envconfig:"http_address" default:":8081"`
	StoreBackend      string `envconfig:"store_backend" default:"memory"`
	PebbleDir         string `envconfig:"pebble_dir" default:"data/retail"`
	AdminPassword     string `envconfig:"admin_password" required:"true"`
	LowStockThreshold int    `envconfig:"low_stock_threshold" default:"10"`
	ExpiryWarningDays int    `envconfig:"expiry_warning_days" default:"7"`
	LoyaltyIncrement  int    `envconfig:"loyalty_increment" default:"10"`
	Timezone          string `envconfig:"timezone" default:"Africa/Maputo"`
	LogLevel          string `envconfig:"log_level" default:"info"`
}

// Load reads the configuration and checks the values that cannot be expressed as tags.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process(appID, c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch c.StoreBackend {
	case "memory", "pebble":
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.LowStockThreshold < 0 || c.ExpiryWarningDays < 0 || c.LoyaltyIncrement <= 0 {
		return nil, fmt.Errorf("thresholds must be non-negative and loyalty increment positive")
	}
	if _, err := c.Location(); err != nil {
		return nil, err
	}
	return c, nil
}

// Location resolves the store's timezone, used for calendar-day report windows.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NewLogger builds the production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
