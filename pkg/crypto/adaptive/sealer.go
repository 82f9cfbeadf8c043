package adaptive

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// sealer implements Cipher over any AEAD. Sealed blobs carry the nonce
// as a prefix: nonce || ciphertext || tag.
type sealer struct {
	ctype CipherType
	aead  cipher.AEAD
}

func (s *sealer) Type() CipherType { return s.ctype }

func (s *sealer) NonceSize() int { return s.aead.NonceSize() }

func (s *sealer) Overhead() int { return s.aead.Overhead() }

func (s *sealer) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	sealed := make([]byte, nonceSize, nonceSize+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, sealed); err != nil {
		return nil, fmt.Errorf("adaptive: generate nonce: %w", err)
	}
	return s.aead.Seal(sealed, sealed[:nonceSize], plaintext, additionalData), nil
}

func (s *sealer) Decrypt(sealed, additionalData []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, ErrSealedTooShort
	}
	plaintext, err := s.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], additionalData)
	if err != nil {
		return nil, fmt.Errorf("adaptive: open sealed data: %w", err)
	}
	return plaintext, nil
}
