// Package keva is a single-process, file-backed key-value store with
// per-entry TTL expiration.
//
// A store keeps every entry in memory and rewrites its backing file in
// full on each mutation, so a crash at any point leaves the previous
// consistent state on disk. One process owns a store file at a time,
// enforced with a lockfile next to it.
//
// Basic usage:
//
//	store, err := keva.Open(keva.DefaultConfig("/var/lib/keva/keva.db"))
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	err = store.Create(ctx, "session:alice", []byte("token"), 30*time.Minute)
//	value, err := store.Read(ctx, "session:alice")
//	err = store.Delete(ctx, "session:alice")
//
// Entries with a TTL are invisible to Read and Delete from their
// deadline onward and are removed for good by a background reaper.
//
// The keva binary (cmd/keva) inspects, verifies, and compacts store
// files without going through this API.
package keva

import (
	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/internal/storage"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
	"github.com/nzoba/keva-go/internal/telemetry/logger"
	"github.com/nzoba/keva-go/pkg/crypto/adaptive"
)

// Store is an open key-value store. Obtain one with Open; it is safe
// for concurrent use.
type Store = storage.Store

// Config configures a Store for Open.
type Config = storage.Config

// Stats is the point-in-time summary returned by Store.Stats.
type Stats = storage.Stats

// Cipher seals the store file when set on Config.Cipher.
type Cipher = adaptive.Cipher

// Logger is the structured logger accepted by Config.Logger. Leave it
// nil to log through the process default.
type Logger = logger.Logger

// LoggerConfig configures NewLogger.
type LoggerConfig = logger.Config

// Default limits applied when Config leaves them zero.
const (
	DefaultMaxKeyLength    = domain.DefaultMaxKeyLength
	DefaultMaxValueSize    = domain.DefaultMaxValueSize
	DefaultCleanupInterval = storage.DefaultCleanupInterval
)

// Errors returned by store operations. Match them with errors.Is; every
// one survives the wrapping applied on the way out.
var (
	ErrInvalidKey    = domain.ErrInvalidKey
	ErrKeyNotFound   = domain.ErrKeyNotFound
	ErrKeyExists     = domain.ErrKeyExists
	ErrValueTooLarge = domain.ErrValueTooLarge
	ErrStoreClosed   = domain.ErrStoreClosed
	ErrStoreLocked   = domain.ErrStoreLocked
	ErrPersistence   = domain.ErrPersistence
	ErrEncryptionKey = domain.ErrEncryptionKey
)

// Open acquires the writer lock, loads the store file, and starts the
// expiration reaper. A missing file starts an empty store.
func Open(cfg Config) (*Store, error) {
	return storage.Open(cfg)
}

// DefaultConfig returns the configuration for a store file at path.
func DefaultConfig(path string) Config {
	return storage.DefaultConfig(path)
}

// NewCipher builds a store file cipher from a raw 32-byte key. An empty
// algorithm selects the platform-preferred AEAD; "aes-gcm" and
// "chacha20-poly1305" force one.
func NewCipher(key []byte, algorithm string) (Cipher, error) {
	return snapshot.NewCipher(key, algorithm)
}

// CipherFromKeyFile builds a store file cipher from a key file written
// by `keva keygen`.
func CipherFromKeyFile(path, algorithm string) (Cipher, error) {
	return snapshot.CipherFromKeyFile(path, algorithm)
}

// NewLogger builds a structured logger for Config.Logger.
func NewLogger(cfg LoggerConfig) (Logger, error) {
	return logger.New(cfg)
}
