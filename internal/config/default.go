// Package config defines the keva configuration structure.
package config

import (
	"time"

	"github.com/nzoba/keva-go/internal/core/domain"
)

// Default configuration values.
const (
	DefaultStorePath       = "/var/lib/keva/keva.db"
	DefaultCleanupInterval = time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default keva configuration.
func Default() *Config {
	return &Config{
		Store: StoreSection{
			Path:            DefaultStorePath,
			MaxKeyLength:    domain.DefaultMaxKeyLength,
			MaxValueSize:    domain.DefaultMaxValueSize,
			CleanupInterval: DefaultCleanupInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
