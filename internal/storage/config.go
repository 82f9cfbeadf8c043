package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/internal/telemetry/logger"
	"github.com/nzoba/keva-go/pkg/crypto/adaptive"
)

// DefaultCleanupInterval is how often the reaper scans for expired
// entries when the config does not say otherwise.
const DefaultCleanupInterval = time.Minute

// Config configures a Store.
type Config struct {
	// Path is the store file location. The writer lock lives next to
	// it at Path + ".lock".
	Path string

	// MaxKeyLength bounds key length in bytes. Zero or less falls back
	// to domain.DefaultMaxKeyLength.
	MaxKeyLength int

	// MaxValueSize bounds value size in bytes. Zero or less falls back
	// to domain.DefaultMaxValueSize.
	MaxValueSize int

	// CleanupInterval is the reaper period. Zero or less falls back to
	// DefaultCleanupInterval.
	CleanupInterval time.Duration

	// WatchFile reports modifications of the store file made outside
	// this process.
	WatchFile bool

	// Cipher seals the store file when set.
	Cipher adaptive.Cipher

	// Metrics receives store statistics when set.
	Metrics prometheus.Registerer

	// Logger is the structured logger. Nil falls back to the process
	// default.
	Logger logger.Logger
}

// DefaultConfig returns the configuration for a store file at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxKeyLength:    domain.DefaultMaxKeyLength,
		MaxValueSize:    domain.DefaultMaxValueSize,
		CleanupInterval: DefaultCleanupInterval,
	}
}
