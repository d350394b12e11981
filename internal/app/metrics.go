package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fxi-data/internal/pipeline"
)

// Metrics counts pipeline progress on a private registry. A one-shot run
// has no scrape endpoint; the counters are written as a node-exporter
// textfile when a path is configured.
type Metrics struct {
	registry *prometheus.Registry
	path     string

	published *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	runs      *prometheus.CounterVec
	lastDay   *prometheus.GaugeVec
}

// NewMetrics registers the fxi_ collectors. path may be empty.
func NewMetrics(path string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		path:     path,
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "fxi", Name: "days_published_total", Help: "Index days published"},
			[]string{"symbol"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "fxi", Name: "days_skipped_total", Help: "Non-trading days skipped"},
			[]string{"symbol"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "fxi", Name: "symbol_runs_total", Help: "Symbol runs by outcome"},
			[]string{"symbol", "outcome"},
		),
		lastDay: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: "fxi", Name: "last_published_day_timestamp_seconds", Help: "FXT midnight of the newest published day"},
			[]string{"symbol"},
		),
	}
	m.registry.MustRegister(m.published, m.skipped, m.runs, m.lastDay)
	return m
}

func (m *Metrics) DayPublished(symbol string, day time.Time) {
	m.published.WithLabelValues(symbol).Inc()
	m.lastDay.WithLabelValues(symbol).Set(float64(day.Unix()))
}

func (m *Metrics) DaySkipped(symbol string) {
	m.skipped.WithLabelValues(symbol).Inc()
}

func (m *Metrics) SymbolFinished(symbol string, state pipeline.State) {
	m.runs.WithLabelValues(symbol, state.String()).Inc()
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Flush writes the textfile. It is a no-op without a path.
func (m *Metrics) Flush() error {
	if m.path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(m.path, m.registry)
}

var _ pipeline.Recorder = (*Metrics)(nil)
