package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	ResultPosted  = "posted"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"

	OriginNetwork = "network"
	OriginCache   = "cache"
	OriginFile    = "file"
)

// Manager manages all Prometheus metrics of a sackigami run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         *prometheus.Registry

	// Pipeline
	gamesEvaluated   *prometheus.CounterVec
	announcements    *prometheus.CounterVec
	similarityLookup prometheus.Histogram

	// Data
	datasetRows    prometheus.Gauge
	seasonsLoaded  *prometheus.CounterVec
	seasonFetch    prometheus.Histogram
	ledgerRecords  prometheus.Gauge
	postingLatency prometheus.Histogram
	pacerDelay     prometheus.Histogram

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sackigami",
		subsystem:        "bot",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.gamesEvaluated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "games_evaluated_total",
		Help:        "Games run through the worthiness cascade, by deciding rule",
		ConstLabels: labels,
	}, []string{"verdict"})

	m.announcements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "announcements_total",
		Help:        "Announcements by outcome",
		ConstLabels: labels,
	}, []string{"result"})

	m.similarityLookup = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "similarity_lookup_seconds",
		Help:        "Time spent scanning history for matching stat lines",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_rows",
		Help:        "Rows in the loaded historical dataset",
		ConstLabels: labels,
	})

	m.seasonsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "seasons_loaded_total",
		Help:        "Season files loaded, by origin",
		ConstLabels: labels,
	}, []string{"origin"})

	m.seasonFetch = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "season_fetch_seconds",
		Help:        "Download time of one season file",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.ledgerRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ledger_records",
		Help:        "Records in the posted-games ledger",
		ConstLabels: labels,
	})

	m.postingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "posting_latency_seconds",
		Help:        "Round trip of one post to the social platform",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.pacerDelay = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pacer_delay_seconds",
		Help:        "Randomized delay waited after each post",
		Buckets:     []float64{1, 5, 15, 30, 60, 90, 120},
		ConstLabels: labels,
	})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// Registry returns the registry the manager registers on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordGameEvaluated counts one classified game under the deciding rule.
func (m *Manager) RecordGameEvaluated(rule string) { m.gamesEvaluated.WithLabelValues(rule).Inc() }

// RecordAnnouncement counts one announcement outcome.
func (m *Manager) RecordAnnouncement(result string) { m.announcements.WithLabelValues(result).Inc() }

// RecordSimilarityLookup observes one history scan.
func (m *Manager) RecordSimilarityLookup(d time.Duration) { m.similarityLookup.Observe(d.Seconds()) }

// UpdateDatasetRows sets the size of the loaded dataset.
func (m *Manager) UpdateDatasetRows(n int) { m.datasetRows.Set(float64(n)) }

// RecordSeasonLoaded counts one season file by origin.
func (m *Manager) RecordSeasonLoaded(origin string) { m.seasonsLoaded.WithLabelValues(origin).Inc() }

// RecordSeasonFetch observes one season download.
func (m *Manager) RecordSeasonFetch(d time.Duration) { m.seasonFetch.Observe(d.Seconds()) }

// UpdateLedgerRecords sets the size of the ledger.
func (m *Manager) UpdateLedgerRecords(n int) { m.ledgerRecords.Set(float64(n)) }

// RecordPostingLatency observes one post round trip.
func (m *Manager) RecordPostingLatency(d time.Duration) { m.postingLatency.Observe(d.Seconds()) }

// RecordPacerDelay observes one post-to-post delay.
func (m *Manager) RecordPacerDelay(d time.Duration) { m.pacerDelay.Observe(d.Seconds()) }

// RecordErrorByComponent counts one error.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// WriteTextfile writes every metric in the node_exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Global wrappers used by the pipeline.

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// RecordGameEvaluated counts one classified game on the global manager.
func RecordGameEvaluated(rule string) { globalManager.RecordGameEvaluated(rule) }

// RecordAnnouncement counts one announcement outcome on the global manager.
func RecordAnnouncement(result string) { globalManager.RecordAnnouncement(result) }

// RecordSimilarityLookup observes one history scan on the global manager.
func RecordSimilarityLookup(d time.Duration) { globalManager.RecordSimilarityLookup(d) }

// UpdateDatasetRows sets the dataset size on the global manager.
func UpdateDatasetRows(n int) { globalManager.UpdateDatasetRows(n) }

// RecordSeasonLoaded counts one season file on the global manager.
func RecordSeasonLoaded(origin string) { globalManager.RecordSeasonLoaded(origin) }

// RecordSeasonFetch observes one season download on the global manager.
func RecordSeasonFetch(d time.Duration) { globalManager.RecordSeasonFetch(d) }

// UpdateLedgerRecords sets the ledger size on the global manager.
func UpdateLedgerRecords(n int) { globalManager.UpdateLedgerRecords(n) }

// RecordPostingLatency observes one post on the global manager.
func RecordPostingLatency(d time.Duration) { globalManager.RecordPostingLatency(d) }

// RecordPacerDelay observes one delay on the global manager.
func RecordPacerDelay(d time.Duration) { globalManager.RecordPacerDelay(d) }

// RecordErrorByComponent counts one error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// WriteTextfile exports the global registry to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }
