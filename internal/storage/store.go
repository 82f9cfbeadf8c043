package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/internal/infra/fswatch"
	"github.com/nzoba/keva-go/internal/storage/memory"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
	"github.com/nzoba/keva-go/internal/telemetry/logger"
	"github.com/nzoba/keva-go/internal/telemetry/metric"
)

// Store is a file-backed key-value store with per-entry expiration.
//
// All entries live in memory. Every successful mutation rewrites the
// store file in full, so a crash at any point leaves the file at the
// previous consistent state and reopening recovers everything that was
// last written.
type Store struct {
	cfg    Config
	table  *memory.Table
	snap   *snapshot.Manager
	flk    *flock.Flock
	logger logger.Logger

	// saveMu serializes store file writes and guards the persistence
	// state below it.
	saveMu       sync.Mutex
	lastSaveAt   atomic.Int64 // Unix milliseconds
	fileSize     atomic.Int64
	lastChecksum atomic.Value // string, hex digest of the last write

	closed atomic.Bool

	creates      atomic.Uint64
	reads        atomic.Uint64
	deletes      atomic.Uint64
	reaped       atomic.Uint64
	saves        atomic.Uint64
	saveFailures atomic.Uint64

	watcher *fswatch.Watcher

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open acquires the writer lock, loads the store file, and starts the
// expiration reaper.
//
// Opening fails when another process holds the lock, and when the file
// on disk needs a key this process does not have. A missing file starts
// an empty store; an unreadable one is logged and treated as missing.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, domain.ErrPersistence.WithDetails("store path is required")
	}
	if cfg.MaxKeyLength <= 0 {
		cfg.MaxKeyLength = domain.DefaultMaxKeyLength
	}
	if cfg.MaxValueSize <= 0 {
		cfg.MaxValueSize = domain.DefaultMaxValueSize
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	log := cfg.Logger.With("component", "store")

	snapMgr, err := snapshot.NewManager(snapshot.Config{Path: cfg.Path, Cipher: cfg.Cipher})
	if err != nil {
		return nil, domain.ErrPersistence.WithDetails("prepare store file").WithCause(err)
	}

	// Two writers rewriting the same file would silently drop each
	// other's entries, so the lock is taken before anything is read.
	flk := flock.New(cfg.Path + ".lock")
	locked, err := flk.TryLock()
	if err != nil {
		return nil, domain.ErrPersistence.WithDetails("acquire store lock").WithCause(err)
	}
	if !locked {
		return nil, domain.ErrStoreLocked.WithDetails(
			fmt.Sprintf("store file %s is held by another process", cfg.Path))
	}

	s := &Store{
		cfg:    cfg,
		table:  memory.NewTable(),
		snap:   snapMgr,
		flk:    flk,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if err := s.load(); err != nil {
		flk.Unlock()
		return nil, err
	}

	if cfg.Metrics != nil {
		if _, err := metric.Register(cfg.Metrics, s.MetricsStats); err != nil {
			log.Warn("metrics registration failed", "error", err)
		}
	}

	go s.reapLoop()

	if cfg.WatchFile {
		if err := s.startWatcher(); err != nil {
			log.Warn("store file watcher unavailable", "error", err)
		}
	}

	return s, nil
}

// load reads the store file into the table.
func (s *Store) load() error {
	start := time.Now()

	entries, info, err := s.snap.Load()
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		s.logger.Info("no store file found, starting empty", "path", s.cfg.Path)
		return nil

	case errors.Is(err, snapshot.ErrEncrypted):
		// Continuing without the key would replace the file with a
		// plaintext rewrite on the next mutation.
		return domain.ErrEncryptionKey.
			WithDetails("store file is encrypted and no key was provided").
			WithCause(err)

	case errors.Is(err, snapshot.ErrNotEncrypted):
		return domain.ErrEncryptionKey.
			WithDetails("store file is plaintext but an encryption key is configured").
			WithCause(err)

	case errors.Is(err, snapshot.ErrDecrypt):
		return domain.ErrEncryptionKey.
			WithDetails("store file cannot be decrypted with the configured key").
			WithCause(err)

	case err != nil:
		s.logger.Warn("store file unreadable, starting empty",
			"path", s.cfg.Path,
			"error", err)
		return nil
	}

	loaded, dropped := s.table.Rebuild(entries, time.Now().UnixMilli())
	s.lastSaveAt.Store(info.CreatedAt)
	s.fileSize.Store(info.Size)
	s.lastChecksum.Store(info.Checksum)

	s.logger.Info("store file loaded",
		"path", s.cfg.Path,
		"entries", loaded,
		"expired_dropped", dropped,
		"encrypted", info.Encrypted,
		"elapsed", time.Since(start))
	return nil
}

// Create stores value under key. A ttl greater than zero sets the
// expiration deadline to now+ttl; zero or less stores the entry without
// expiration.
//
// The entry is written to the store file before Create returns. A
// persistence failure is reported to the caller, but the entry stays
// readable and is written again by the next successful save.
func (s *Store) Create(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := domain.ValidateKey(key, s.cfg.MaxKeyLength); err != nil {
		return err
	}
	if err := domain.ValidateValue(value, s.cfg.MaxValueSize); err != nil {
		return err
	}

	if err := s.table.Create(key, domain.NewEntry(value, ttl)); err != nil {
		return err
	}
	s.creates.Add(1)

	return s.save(ctx)
}

// Read returns the value stored under key. Reading a missing or expired
// key fails with domain.ErrKeyNotFound.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, domain.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.table.Get(key)
	if err != nil {
		return nil, err
	}
	s.reads.Add(1)
	return entry.Value, nil
}

// Delete removes the entry stored under key. Deleting a missing or
// expired key fails with domain.ErrKeyNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.table.Delete(key); err != nil {
		return err
	}
	s.deletes.Add(1)

	return s.save(ctx)
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	return s.table.Len()
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.cfg.Path
}

// TriggerSave writes the store file immediately.
func (s *Store) TriggerSave(ctx context.Context) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	return s.save(ctx)
}

// save rewrites the store file from the current table.
func (s *Store) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := s.snap.Write(s.table.All())
	if err != nil {
		s.saveFailures.Add(1)
		return domain.ErrPersistence.WithDetails("write store file").WithCause(err)
	}

	s.saves.Add(1)
	s.lastSaveAt.Store(info.CreatedAt)
	s.fileSize.Store(info.Size)
	s.lastChecksum.Store(info.Checksum)
	return nil
}

// Close stops the reaper, writes the final state, and releases the
// writer lock. Close is idempotent; operations after Close fail with
// domain.ErrStoreClosed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(s.stopCh)
	<-s.doneCh

	if s.watcher != nil {
		s.watcher.Stop()
	}

	// A failed save on the last mutation gets one more chance before
	// the lock goes away.
	err := s.save(context.Background())
	if err != nil {
		s.logger.Error("final save failed", "error", err)
	}

	if unlockErr := s.flk.Unlock(); unlockErr != nil && err == nil {
		err = domain.ErrPersistence.WithDetails("release store lock").WithCause(unlockErr)
	}

	s.logger.Info("store closed", "path", s.cfg.Path)
	return err
}

// Stats is a point-in-time summary of store state and activity.
type Stats struct {
	// Table shape.
	Entries    int
	WithTTL    int
	Expired    int
	IndexPairs int

	// Cumulative counters since Open.
	Creates      uint64
	Reads        uint64
	Deletes      uint64
	Reaped       uint64
	Saves        uint64
	SaveFailures uint64

	// Persistence state.
	FileSize   int64
	LastSaveAt int64 // Unix milliseconds, zero before the first save
	Path       string
}

// Stats collects a snapshot of store statistics.
func (s *Store) Stats() Stats {
	census := s.table.Stats()
	return Stats{
		Entries:      census.Total,
		WithTTL:      census.WithTTL,
		Expired:      census.Expired,
		IndexPairs:   census.IndexPairs,
		Creates:      s.creates.Load(),
		Reads:        s.reads.Load(),
		Deletes:      s.deletes.Load(),
		Reaped:       s.reaped.Load(),
		Saves:        s.saves.Load(),
		SaveFailures: s.saveFailures.Load(),
		FileSize:     s.fileSize.Load(),
		LastSaveAt:   s.lastSaveAt.Load(),
		Path:         s.cfg.Path,
	}
}

// MetricsStats adapts Stats to the metric collector's view. It is the
// Source registered when Config.Metrics is set.
func (s *Store) MetricsStats() metric.Stats {
	st := s.Stats()
	return metric.Stats{
		Entries:        st.Entries,
		EntriesWithTTL: st.WithTTL,
		Expired:        st.Expired,
		IndexPairs:     st.IndexPairs,
		Creates:        st.Creates,
		Reads:          st.Reads,
		Deletes:        st.Deletes,
		Reaped:         st.Reaped,
		Saves:          st.Saves,
		SaveFailures:   st.SaveFailures,
		FileSize:       st.FileSize,
		LastSaveAt:     st.LastSaveAt,
	}
}
