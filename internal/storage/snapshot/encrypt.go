// Package snapshot reads and writes the keva store file.
//
// This file contains encryption utilities for store file protection.
package snapshot

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/nzoba/keva-go/pkg/crypto/adaptive"
)

// Encryption errors.
var (
	ErrKeyTooShort       = errors.New("snapshot: encryption key too short (minimum 16 bytes)")
	ErrPassphraseTooWeak = errors.New("snapshot: passphrase too weak (minimum 8 characters)")
)

const (
	// MinKeyLength is the minimum key length for encryption.
	MinKeyLength = 16

	// MinPassphraseLength is the minimum passphrase length.
	MinPassphraseLength = 8

	// SaltLength is the fixed salt length used in key derivation.
	SaltLength = 16

	// KeyLength is the cipher key length (AES-256 / ChaCha20).
	KeyLength = 32

	// Argon2 parameters for key derivation from passphrase.
	// TODO: make these configurable so operators can tune derivation
	// cost without recompiling.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// LoadKeyFile reads the encryption key from a key file.
//
// The file holds hex-encoded key material as produced by keygen: either
// a raw 32-byte key, or a 48-byte salt||key blob when the key was
// derived from a passphrase. The salt stays in the file so the same
// passphrase derivation can be reproduced later; only the trailing 32
// bytes serve as the cipher key.
func LoadKeyFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read key file: %w", err)
	}

	decoded, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode key file: %w", err)
	}

	switch len(decoded) {
	case KeyLength:
		return decoded, nil
	case SaltLength + KeyLength:
		_, key, err := ExtractKeyFromDerived(decoded)
		return key, err
	default:
		return nil, fmt.Errorf("snapshot: key file holds %d bytes, want %d or %d",
			len(decoded), KeyLength, SaltLength+KeyLength)
	}
}

// WriteKeyFile writes hex-encoded key material with owner-only access.
func WriteKeyFile(path string, material []byte) error {
	encoded := hex.EncodeToString(material)
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0600); err != nil {
		return fmt.Errorf("snapshot: write key file: %w", err)
	}
	return nil
}

// NewCipher builds a cipher for the given algorithm name.
//
// An empty algorithm selects the platform-preferred cipher. Supported
// names: "aes-gcm", "chacha20-poly1305".
func NewCipher(key []byte, algorithm string) (adaptive.Cipher, error) {
	if len(key) < MinKeyLength {
		return nil, ErrKeyTooShort
	}
	if algorithm == "" {
		return adaptive.New(key)
	}
	return adaptive.NewWithType(key, adaptive.CipherType(algorithm))
}

// DeriveKeyFromPassphrase derives a 32-byte key from a passphrase using
// Argon2id. If salt is nil, a new random salt is generated. The salt is
// prepended to the returned material so the derivation can be repeated.
func DeriveKeyFromPassphrase(passphrase []byte, salt []byte) ([]byte, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrPassphraseTooWeak
	}

	if salt == nil {
		salt = make([]byte, SaltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("snapshot: derive key: %w", err)
		}
	}

	key := argon2.IDKey(
		passphrase,
		salt,
		argon2Time,
		argon2Memory,
		argon2Threads,
		KeyLength,
	)

	// Prepend salt to key for storage.
	result := make([]byte, len(salt)+len(key))
	copy(result, salt)
	copy(result[len(salt):], key)
	return result, nil
}

// ExtractKeyFromDerived splits salt||key material produced by
// DeriveKeyFromPassphrase.
func ExtractKeyFromDerived(derived []byte) (salt, key []byte, err error) {
	if len(derived) != SaltLength+KeyLength {
		return nil, nil, fmt.Errorf("snapshot: invalid derived key length %d", len(derived))
	}
	return derived[:SaltLength], derived[SaltLength:], nil
}

// DeriveSubkey derives a subkey from a master key using HKDF. Separate
// purposes get separate keys from one piece of key material.
func DeriveSubkey(masterKey []byte, info string, length int) ([]byte, error) {
	if len(masterKey) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	reader := hkdf.New(sha256.New, masterKey, nil, []byte(info))
	key := make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("snapshot: derive subkey: %w", err)
	}
	return key, nil
}

// GenerateKey generates a random encryption key of the specified length.
func GenerateKey(length int) ([]byte, error) {
	if length < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("snapshot: generate key: %w", err)
	}
	return key, nil
}

// ZeroKey zeros a key in memory.
func ZeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}

// CipherFromKeyFile loads a key file and builds the store-file cipher.
//
// The cipher key is derived from the file's key material with HKDF, so
// other artifacts can share the key file without sharing the actual
// cipher key.
func CipherFromKeyFile(path, algorithm string) (adaptive.Cipher, error) {
	master, err := LoadKeyFile(path)
	if err != nil {
		return nil, err
	}
	defer ZeroKey(master)

	key, err := DeriveSubkey(master, "keva-store-file", KeyLength)
	if err != nil {
		return nil, err
	}
	return NewCipher(key, algorithm)
}
