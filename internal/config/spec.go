// Package config defines the keva configuration structure.
package config

import "time"

// Config is the root configuration for keva.
type Config struct {
	Store      StoreSection      `koanf:"store"`
	Encryption EncryptionSection `koanf:"encryption"`
	Log        LogSection        `koanf:"log"`
}

// StoreSection configures the store file and entry limits.
type StoreSection struct {
	// Path is the store file location.
	Path string `koanf:"path"`

	// MaxKeyLength bounds key length in bytes. Zero keeps the built-in
	// default.
	MaxKeyLength int `koanf:"max_key_length"`

	// MaxValueSize bounds value size in bytes. Zero keeps the built-in
	// default.
	MaxValueSize int `koanf:"max_value_size"`

	// CleanupInterval is the period of the expiration reaper.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// WatchFile reports modifications of the store file made outside
	// the owning process.
	WatchFile bool `koanf:"watch_file"`
}

// EncryptionSection configures store file encryption.
//
// The key itself never appears in configuration; KeyFile points at the
// file holding the key material.
type EncryptionSection struct {
	Enabled bool   `koanf:"enabled"`
	KeyFile string `koanf:"key_file"`

	// Algorithm selects the cipher: "aes-gcm" or "chacha20-poly1305".
	// Empty picks the faster one for the platform.
	Algorithm string `koanf:"algorithm"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
