package benchmark

import (
	"crypto/rand"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/nzoba/keva-go/internal/core/domain"
	"github.com/nzoba/keva-go/internal/storage"
	"github.com/nzoba/keva-go/internal/storage/memory"
	"github.com/nzoba/keva-go/internal/telemetry/logger"
)

// EntryCounts defines the entry counts for full benchmark runs.
var EntryCounts = []int{5000, 10000, 50000, 100000, 200000, 500000}

// SmallEntryCounts for quick benchmarks.
var SmallEntryCounts = []int{1000, 5000, 10000}

// benchValue is the payload stored under every benchmark key. 128 bytes
// sits in the range of real values (tokens, small JSON documents).
var benchValue = randomBytes(128)

// randomBytes returns n cryptographically random bytes.
func randomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// benchKey returns the deterministic key for index i.
func benchKey(i int) string {
	return fmt.Sprintf("bench:entry:%08d", i)
}

// prefillTable fills a table with count live entries and returns their keys.
func prefillTable(b *testing.B, table *memory.Table, count int) []string {
	b.Helper()

	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = benchKey(i)
		if err := table.Create(keys[i], domain.NewEntry(benchValue, time.Hour)); err != nil {
			b.Fatalf("prefill Create failed: %v", err)
		}
	}
	return keys
}

// benchEntries builds an entry map of the given size, as handed to the
// persistence layer on save.
func benchEntries(count int) map[string]*domain.Entry {
	entries := make(map[string]*domain.Entry, count)
	for i := 0; i < count; i++ {
		entries[benchKey(i)] = domain.NewEntry(benchValue, time.Hour)
	}
	return entries
}

// quietLogger discards everything below error so benchmark output stays
// readable.
func quietLogger(b *testing.B) logger.Logger {
	b.Helper()

	log, err := logger.New(logger.Config{Level: "error", Output: io.Discard})
	if err != nil {
		b.Fatalf("logger.New failed: %v", err)
	}
	return log
}

// benchStoreConfig returns a store configuration rooted in a temp dir
// with the reaper effectively disabled, so iterations measure only the
// operation under test.
func benchStoreConfig(b *testing.B) storage.Config {
	b.Helper()

	cfg := storage.DefaultConfig(filepath.Join(b.TempDir(), "keva.db"))
	cfg.CleanupInterval = time.Hour
	cfg.Logger = quietLogger(b)
	return cfg
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// sizeLabel returns a human-readable size label.
func sizeLabel(size int) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%dMB", size/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%dKB", size/1024)
	default:
		return fmt.Sprintf("%dB", size)
	}
}
