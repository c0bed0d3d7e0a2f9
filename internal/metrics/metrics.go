// Package metrics counts export runs and writes them as a Prometheus
// textfile for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wsynab/wsynab/internal/extract"
)

const namespace = "wsynab"

// Recorder holds the counters of one process.
type Recorder struct {
	registry *prometheus.Registry

	extracted     prometheus.Counter
	skipped       *prometheus.CounterVec
	groupsSkipped prometheus.Counter
	renamed       prometheus.Counter
	lastRun       prometheus.Gauge
}

// New registers the counters on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		extracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "", "entries_extracted_total"),
			Help: "Transactions extracted from activity snapshots.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "", "entries_skipped_total"),
			Help: "Transaction blocks discarded, by reason.",
		}, []string{"reason"}),
		groupsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "", "groups_skipped_total"),
			Help: "Date groups skipped because the heading did not parse.",
		}),
		renamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "", "payees_renamed_total"),
			Help: "Entries whose payee was rewritten by a rename rule.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prometheus.BuildFQName(namespace, "", "last_run_timestamp_seconds"),
			Help: "Unix time of the last export run.",
		}),
	}
	r.registry.MustRegister(r.extracted, r.skipped, r.groupsSkipped, r.renamed, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe adds the counts of one extraction and rename pass.
func (r *Recorder) Observe(stats extract.Stats, renamed int) {
	r.extracted.Add(float64(stats.Entries))
	r.groupsSkipped.Add(float64(stats.SkippedGroups))
	r.skipped.WithLabelValues(extract.ReasonCancelled).Add(float64(stats.Cancelled))
	for reason, n := range stats.Skipped {
		if reason == extract.ReasonDate {
			continue
		}
		r.skipped.WithLabelValues(reason).Add(float64(n))
	}
	r.renamed.Add(float64(renamed))
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every metric to path, creating its directory.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
