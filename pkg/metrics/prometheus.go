// Package metrics provides Prometheus metrics for timestamp conversions.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Error kinds recorded on the conversion error counter.
const (
	KindOutOfRange  = "out_of_range"
	KindInvalidUnit = "invalid_unit"
	KindOutput      = "output"
	KindOther       = "other"
)

// Manager owns the conversion metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	conversions       prometheus.Counter
	conversionErrors  *prometheus.CounterVec
	conversionLatency prometheus.Histogram
	lastConvertedUnix prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "epochfmt",
		subsystem:        "formatter",
		histogramBuckets: []float64{0.001, 0.01, 0.1, 1, 10},
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.conversions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "conversions_total",
		Help:        "Total number of timestamps successfully converted and written",
		ConstLabels: m.constLabels,
	})

	m.conversionErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "conversion_errors_total",
		Help:        "Total number of failed conversions by error kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.conversionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "conversion_latency_milliseconds",
		Help:        "Histogram of conversion and formatting latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.lastConvertedUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_converted_unix_seconds",
		Help:        "Unix seconds of the most recently converted timestamp",
		ConstLabels: m.constLabels,
	})
}

// RecordConversion counts a successful conversion of the instant unixSec.
func (m *Manager) RecordConversion(unixSec int64, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.conversions.Inc()
	m.conversionLatency.Observe(latencyMs)
	m.lastConvertedUnix.Set(float64(unixSec))
}

// RecordConversionError counts a failed conversion of the given kind.
func (m *Manager) RecordConversionError(kind string) {
	if !m.enabled {
		return
	}
	if kind == "" {
		kind = KindOther
	}
	m.conversionErrors.WithLabelValues(kind).Inc()
}

// Conversions exposes the success counter.
func (m *Manager) Conversions() prometheus.Counter { return m.conversions }

// ConversionErrors exposes the error counter.
func (m *Manager) ConversionErrors() *prometheus.CounterVec { return m.conversionErrors }

// Global helpers backed by the default manager.

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// RecordConversion records a success on the process-wide manager.
func RecordConversion(unixSec int64, latencyMs float64) {
	globalManager.RecordConversion(unixSec, latencyMs)
}

// RecordConversionError records a failure on the process-wide manager.
func RecordConversionError(kind string) {
	globalManager.RecordConversionError(kind)
}

// GetRegistry returns the custom registry backing the process-wide manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Snapshot gathers g and flattens every sample into "name{labels}" -> value.
// Histograms contribute their _count and _sum samples.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(pairs)
			key := mf.GetName()
			if len(pairs) > 0 {
				key += "{" + strings.Join(pairs, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				out[withSuffix(key, mf.GetName(), "_count")] = float64(h.GetSampleCount())
				out[withSuffix(key, mf.GetName(), "_sum")] = h.GetSampleSum()
			case metric.GetUntyped() != nil:
				out[key] = metric.GetUntyped().GetValue()
			}
		}
	}
	return out, nil
}

func withSuffix(key, name, suffix string) string {
	return name + suffix + strings.TrimPrefix(key, name)
}

// WriteText writes every family gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}
	return nil
}
