// Package metrics exposes Prometheus counters and histograms for change
// calculations. A nil *Metrics is valid and records nothing.
package metrics
