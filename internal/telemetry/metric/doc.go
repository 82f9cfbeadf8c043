// Package metric exposes store statistics in Prometheus format.
//
// The package does not start an HTTP listener or touch the default
// registry. It provides a prometheus.Collector that the embedding
// process registers wherever it already serves metrics:
//
//	reg := prometheus.NewRegistry()
//	metric.Register(reg, store.MetricsStats)
//
// The collector is pull-based. Each scrape calls the Source once and
// converts the returned Stats into gauges and counters under the
// keva_store_* prefix.
package metric
