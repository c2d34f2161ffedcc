// Package metrics records pass network build counts as Prometheus metrics.
//
// passnet runs as a batch job, so metrics are not scraped from a listener.
// They are written to a node-exporter textfile or pushed to a Pushgateway.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/pable/go-pass-network/internal/aggregator"
	"github.com/pable/go-pass-network/internal/model"
)

// Sentinel kinds for metrics errors.
var (
	ErrExportFailed = errors.New("metrics export failed")
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithConstLabels adds labels to every metric, e.g. the team filter.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels != nil {
			m.constLabels = labels
		}
	}
}

// Manager owns a private registry and the build metrics registered on it.
type Manager struct {
	namespace   string
	constLabels prometheus.Labels
	registry    *prometheus.Registry

	rowsRead      prometheus.Gauge
	rowsDropped   prometheus.Gauge
	rowsFiltered  prometheus.Gauge
	events        prometheus.Gauge
	edges         prometheus.Gauge
	completed     prometheus.Gauge
	failed        prometheus.Gauge
	recoveries    prometheus.Gauge
	zeroWeight    prometheus.Gauge
	categoryPass  *prometheus.GaugeVec
	buildDuration prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// NewManager creates a Manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "passnet",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   "build",
			Name:        name,
			Help:        help,
			ConstLabels: m.constLabels,
		})
	}

	m.rowsRead = gauge("rows_read", "Input rows read by the last build")
	m.rowsDropped = gauge("rows_dropped", "Rows dropped for a null passer or recipient")
	m.rowsFiltered = gauge("rows_filtered", "Rows removed by the team filter")
	m.events = gauge("events", "Valid pass events after normalization")
	m.edges = gauge("edges", "Edges in the pass network")
	m.completed = gauge("completed_passes", "Completed passes across all edges")
	m.failed = gauge("failed_passes", "Failed passes across all edges")
	m.recoveries = gauge("recovery_interception_passes", "Passes following a recovery or interception")
	m.zeroWeight = gauge("zero_weight_groups", "Groups removed for having no completed pass")
	m.buildDuration = gauge("duration_seconds", "Wall time of the last build")
	m.lastSuccess = gauge("last_success_timestamp_seconds", "Unix time of the last successful build")
	m.categoryPass = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "build",
		Name:        "category_completed_passes",
		Help:        "Completed passes per pass category",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordBuild sets every gauge from a finished build.
func (m *Manager) RecordBuild(s model.Summary, totals []aggregator.CategoryTotal, d time.Duration) {
	m.rowsRead.Set(float64(s.RowsRead))
	m.rowsDropped.Set(float64(s.RowsDropped))
	m.rowsFiltered.Set(float64(s.RowsFiltered))
	m.events.Set(float64(s.Events))
	m.edges.Set(float64(s.Edges))
	m.completed.Set(float64(s.Completed))
	m.failed.Set(float64(s.Failed))
	m.recoveries.Set(float64(s.RecoveryEvents))
	m.zeroWeight.Set(float64(s.ZeroWeight))
	for _, ct := range totals {
		m.categoryPass.WithLabelValues(string(ct.Category)).Set(float64(ct.Completed))
	}
	m.buildDuration.Set(d.Seconds())
	m.lastSuccess.SetToCurrentTime()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: textfile %s: %v", ErrExportFailed, path, err)
	}
	return nil
}

// Push sends the registry to a Pushgateway under job, replacing its previous group.
func (m *Manager) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("%w: push %s: %v", ErrExportFailed, url, err)
	}
	return nil
}
