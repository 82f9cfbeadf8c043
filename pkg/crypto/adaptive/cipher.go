package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherType names an AEAD algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// KeySize is the key length both algorithms take (AES-256, ChaCha20).
const KeySize = 32

var (
	// ErrKeySize reports a key of the wrong length.
	ErrKeySize = errors.New("adaptive: key must be 32 bytes")

	// ErrSealedTooShort reports a sealed blob shorter than its nonce
	// prefix.
	ErrSealedTooShort = errors.New("adaptive: sealed data shorter than nonce")
)

// Cipher seals and opens byte blobs.
type Cipher interface {
	// Type returns the algorithm name.
	Type() CipherType

	// Encrypt seals plaintext under a fresh nonce. additionalData is
	// authenticated but not stored; Decrypt must present the same bytes.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt opens a blob sealed by Encrypt with the same key and
	// additional data.
	Decrypt(sealed, additionalData []byte) ([]byte, error)

	// NonceSize returns the nonce prefix length in bytes.
	NonceSize() int

	// Overhead returns the authentication tag length in bytes.
	Overhead() int
}

// New returns the platform-preferred cipher for the key.
func New(key []byte) (Cipher, error) {
	return NewWithType(key, preferredType())
}

// NewWithType returns a cipher of the named algorithm.
func NewWithType(key []byte, cipherType CipherType) (Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch cipherType {
	case CipherAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case CipherChaCha20:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("adaptive: unknown cipher type %q", cipherType)
	}
	if err != nil {
		return nil, err
	}

	return &sealer{ctype: cipherType, aead: aead}, nil
}

// preferredType picks AES-GCM on architectures where Go's crypto/aes
// runs on dedicated instructions, ChaCha20-Poly1305 everywhere else.
func preferredType() CipherType {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}
