// Package config defines the keva configuration structure.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyStore(&cfg.Store); err != nil {
		return err
	}
	if err := verifyEncryption(&cfg.Encryption); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyStore(cfg *StoreSection) error {
	if cfg.Path == "" {
		return errors.New("store.path is required")
	}

	// The directory must exist before the store file can be written.
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
		return errors.New("cannot create store directory: " + err.Error())
	}

	if cfg.MaxKeyLength < 0 {
		return errors.New("store.max_key_length must not be negative")
	}
	if cfg.MaxValueSize < 0 {
		return errors.New("store.max_value_size must not be negative")
	}
	if cfg.CleanupInterval < 0 {
		return errors.New("store.cleanup_interval must not be negative")
	}
	return nil
}

func verifyEncryption(cfg *EncryptionSection) error {
	if cfg.Enabled && cfg.KeyFile == "" {
		return errors.New("encryption.key_file is required when encryption is enabled")
	}

	switch cfg.Algorithm {
	case "", "aes-gcm", "chacha20-poly1305":
		return nil
	default:
		return errors.New("encryption.algorithm must be aes-gcm or chacha20-poly1305")
	}
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New("log.level must be one of debug, info, warn, error")
	}

	switch cfg.Format {
	case "", "json", "text":
	default:
		return errors.New("log.format must be json or text")
	}
	return nil
}
