// Package domain defines the core domain model for keva.
package domain

import (
	"fmt"
	"time"
)

// Entry constraints applied when the configuration does not override them.
const (
	// DefaultMaxKeyLength is the maximum key length in bytes.
	DefaultMaxKeyLength = 32

	// DefaultMaxValueSize is the maximum value payload size in bytes.
	DefaultMaxValueSize = 16 * 1024
)

// Entry is a stored value with an optional absolute expiration instant.
//
// Entries are owned by the entry table; they are cloned on the way in and
// out so no caller ever aliases table-held state. An entry is never
// mutated in place: a delete removes it entirely and a create replaces it
// wholesale.
type Entry struct {
	// Value is the opaque payload. The store never interprets it.
	Value []byte `json:"value"`

	// ExpiresAt is the absolute expiration instant (Unix milliseconds).
	// Zero means the entry never expires.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// NewEntry builds an entry from a value and an optional TTL.
//
// The value is copied. A zero or negative ttl produces an entry without
// an expiration instant.
func NewEntry(value []byte, ttl time.Duration) *Entry {
	e := &Entry{Value: CloneBytes(value)}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl).UnixMilli()
	}
	return e
}

// HasTTL reports whether the entry carries an expiration instant.
func (e *Entry) HasTTL() bool {
	return e.ExpiresAt != 0
}

// IsExpiredAt reports whether the entry is expired at the given instant
// (Unix milliseconds). An entry is expired from its deadline onward, so
// an entry checked exactly at ExpiresAt is already expired. Entries
// without a TTL are never expired.
//
// This is the single expiration predicate shared by the lazy read/delete
// checks, the reaper, and snapshot reload.
func (e *Entry) IsExpiredAt(nowMillis int64) bool {
	if e.ExpiresAt == 0 {
		return false
	}
	return nowMillis >= e.ExpiresAt
}

// IsExpired reports whether the entry is expired now.
func (e *Entry) IsExpired() bool {
	return e.IsExpiredAt(time.Now().UnixMilli())
}

// TTLRemaining returns the duration until expiration. It returns 0 for
// entries without a TTL and for entries that are already expired.
func (e *Entry) TTLRemaining() time.Duration {
	if e.ExpiresAt == 0 {
		return 0
	}
	remaining := e.ExpiresAt - time.Now().UnixMilli()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining) * time.Millisecond
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	return &Entry{
		Value:     CloneBytes(e.Value),
		ExpiresAt: e.ExpiresAt,
	}
}

// ValidateKey checks a key against the given maximum byte length.
// A maxLength of zero or less falls back to DefaultMaxKeyLength.
func ValidateKey(key string, maxLength int) error {
	if maxLength <= 0 {
		maxLength = DefaultMaxKeyLength
	}
	if key == "" {
		return ErrInvalidKey.WithDetails("key must not be empty")
	}
	if len(key) > maxLength {
		return ErrInvalidKey.WithDetails(
			fmt.Sprintf("key length %d exceeds maximum %d", len(key), maxLength))
	}
	return nil
}

// ValidateValue checks a value payload against the given maximum size.
// A maxSize of zero or less falls back to DefaultMaxValueSize.
//
// The check runs against the serialized form of the value; payloads are
// opaque bytes, so the serialized form is the payload itself.
func ValidateValue(value []byte, maxSize int) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxValueSize
	}
	if len(value) > maxSize {
		return ErrValueTooLarge.WithDetails(
			fmt.Sprintf("value size %d exceeds maximum %d", len(value), maxSize))
	}
	return nil
}

// CloneBytes returns a copy of b, preserving nil.
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
