// Package memory provides in-memory storage for keva.
package memory

import (
	"sync"
	"time"

	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/pkg/cmap"
)

// Table provides in-memory entry storage with an expiration index.
type Table struct {
	// Primary index: key -> Entry
	entries *cmap.Map[*domain.Entry]

	// Expiration index: min-heap of (deadline, key) pairs. Pairs go
	// stale when their entry is deleted or overwritten; ReapExpired
	// discards them on mismatch.
	index *expiryIndex

	// Global lock for operations requiring atomicity across the
	// entry map and the expiration index
	mu sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: cmap.New[*domain.Entry](),
		index:   newExpiryIndex(),
	}
}

// Get retrieves the entry for a key.
//
// An expired entry behaves as deleted: Get reports ErrKeyNotFound and
// leaves the entry in place for the reaper.
func (t *Table) Get(key string) (*domain.Entry, error) {
	entry, ok := t.entries.Get(key)
	if !ok {
		return nil, domain.ErrKeyNotFound
	}

	if entry.IsExpired() {
		return nil, domain.ErrKeyNotFound
	}

	// Return a clone to prevent external modification
	return entry.Clone(), nil
}

// Create stores a new entry under key.
//
// It fails with ErrKeyExists when a live entry already holds the key. An
// expired entry counts as absent and is silently overwritten; its old
// index pair stays behind as a stale pair.
func (t *Table) Create(key string, entry *domain.Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.entries.Get(key); ok && !existing.IsExpired() {
		return domain.ErrKeyExists
	}

	// Store a clone to prevent external modification
	t.entries.Set(key, entry.Clone())

	if entry.HasTTL() {
		t.index.push(entry.ExpiresAt, key)
	}

	return nil
}

// Delete removes the entry for a key.
//
// It fails with ErrKeyNotFound when the key is absent or its entry is
// expired, mirroring Get. The matching index pair is not removed; it
// goes stale and the reaper discards it later.
func (t *Table) Delete(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries.Get(key)
	if !ok || entry.IsExpired() {
		return domain.ErrKeyNotFound
	}

	t.entries.Delete(key)
	return nil
}

// ReapExpired removes every entry whose deadline has passed at the given
// instant (Unix milliseconds) and returns the removed keys.
//
// Index pairs are popped in deadline order. A pair whose deadline does
// not exactly match the live entry's ExpiresAt is stale (the entry was
// deleted or overwritten since the pair was pushed) and is discarded
// without touching the entry.
func (t *Table) ReapExpired(nowMillis int64) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var reaped []string

	for {
		pair, ok := t.index.peekMin()
		if !ok || pair.expiresAt > nowMillis {
			break
		}
		t.index.popMin()

		entry, ok := t.entries.Get(pair.key)
		if !ok || entry.ExpiresAt != pair.expiresAt {
			// Stale pair: the entry is gone or was replaced with
			// a different deadline. The live entry survives.
			continue
		}

		t.entries.Delete(pair.key)
		reaped = append(reaped, pair.key)
	}

	return reaped
}

// Rebuild replaces the table contents with the given entries, dropping
// any that are already expired at the given instant. It returns how many
// entries were loaded and how many were dropped.
//
// Used when loading a store file at startup.
func (t *Table) Rebuild(entries map[string]*domain.Entry, nowMillis int64) (loaded, dropped int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries.Clear()
	t.index.clear()

	for key, entry := range entries {
		if entry.IsExpiredAt(nowMillis) {
			dropped++
			continue
		}

		t.entries.Set(key, entry.Clone())
		if entry.HasTTL() {
			t.index.push(entry.ExpiresAt, key)
		}
		loaded++
	}

	return loaded, dropped
}

// All returns a copy of every entry in the table, expired ones included.
// Used for snapshot creation.
func (t *Table) All() map[string]*domain.Entry {
	all := make(map[string]*domain.Entry, t.entries.Count())
	t.entries.Range(func(key string, entry *domain.Entry) bool {
		all[key] = entry.Clone()
		return true
	})
	return all
}

// Len returns the number of entries in the table, expired ones included.
func (t *Table) Len() int {
	return t.entries.Count()
}

// Census describes the table's current composition.
type Census struct {
	// Total counts every entry in the table.
	Total int

	// WithTTL counts entries carrying a deadline, expired ones included.
	WithTTL int

	// Expired counts entries past their deadline but not yet reaped.
	Expired int

	// IndexPairs counts expiration index pairs, stale ones included.
	IndexPairs int
}

// Stats returns a census of the table.
func (t *Table) Stats() Census {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := time.Now().UnixMilli()
	c := Census{IndexPairs: t.index.len()}

	t.entries.Range(func(_ string, entry *domain.Entry) bool {
		c.Total++
		if entry.HasTTL() {
			c.WithTTL++
		}
		if entry.IsExpiredAt(now) {
			c.Expired++
		}
		return true
	})

	return c
}
