// Package metric exposes store statistics in Prometheus format.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "keva"
	subsystem = "store"
)

// Stats is a point-in-time view of store activity. The storage layer
// builds one on every scrape, so all values in a single Collect call
// come from the same instant.
type Stats struct {
	// Table shape.
	Entries        int
	EntriesWithTTL int
	Expired        int
	IndexPairs     int

	// Cumulative operation counters.
	Creates      uint64
	Reads        uint64
	Deletes      uint64
	Reaped       uint64
	Saves        uint64
	SaveFailures uint64

	// Persistence state.
	FileSize   int64
	LastSaveAt int64 // unix milliseconds, zero until the first save
}

// Source yields the current Stats on each call.
type Source func() Stats

// Collector implements prometheus.Collector over a Source.
type Collector struct {
	source Source

	entries        *prometheus.Desc
	entriesWithTTL *prometheus.Desc
	expired        *prometheus.Desc
	indexPairs     *prometheus.Desc
	creates        *prometheus.Desc
	reads          *prometheus.Desc
	deletes        *prometheus.Desc
	reaped         *prometheus.Desc
	saves          *prometheus.Desc
	saveFailures   *prometheus.Desc
	fileSize       *prometheus.Desc
	lastSave       *prometheus.Desc
}

// NewCollector creates a Collector that reads from source.
func NewCollector(source Source) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name),
			help, nil, nil,
		)
	}

	return &Collector{
		source: source,

		entries:        desc("entries", "Live entries currently held in the table."),
		entriesWithTTL: desc("entries_with_ttl", "Live entries that carry an expiration deadline."),
		expired:        desc("expired_unreaped", "Entries past their deadline that the reaper has not removed yet."),
		indexPairs:     desc("index_pairs", "Deadline pairs held by the expiry index, including stale ones."),
		creates:        desc("creates_total", "Entries created since the store was opened."),
		reads:          desc("reads_total", "Successful reads since the store was opened."),
		deletes:        desc("deletes_total", "Entries deleted since the store was opened."),
		reaped:         desc("reaped_total", "Expired entries removed by the reaper since the store was opened."),
		saves:          desc("saves_total", "Store file writes completed since the store was opened."),
		saveFailures:   desc("save_failures_total", "Store file writes that failed since the store was opened."),
		fileSize:       desc("file_size_bytes", "Size of the store file after the most recent save."),
		lastSave:       desc("last_save_timestamp_seconds", "Unix time of the most recent successful save."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.entriesWithTTL
	ch <- c.expired
	ch <- c.indexPairs
	ch <- c.creates
	ch <- c.reads
	ch <- c.deletes
	ch <- c.reaped
	ch <- c.saves
	ch <- c.saveFailures
	ch <- c.fileSize
	ch <- c.lastSave
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source()

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}

	gauge(c.entries, float64(s.Entries))
	gauge(c.entriesWithTTL, float64(s.EntriesWithTTL))
	gauge(c.expired, float64(s.Expired))
	gauge(c.indexPairs, float64(s.IndexPairs))
	counter(c.creates, float64(s.Creates))
	counter(c.reads, float64(s.Reads))
	counter(c.deletes, float64(s.Deletes))
	counter(c.reaped, float64(s.Reaped))
	counter(c.saves, float64(s.Saves))
	counter(c.saveFailures, float64(s.SaveFailures))
	gauge(c.fileSize, float64(s.FileSize))

	// A zero timestamp means no save has happened; reporting it would
	// look like a save at the epoch.
	if s.LastSaveAt > 0 {
		gauge(c.lastSave, float64(s.LastSaveAt)/1000)
	}
}

// Register creates a Collector over source and registers it with reg.
func Register(reg prometheus.Registerer, source Source) (*Collector, error) {
	c := NewCollector(source)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
