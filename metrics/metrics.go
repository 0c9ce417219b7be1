// Package metrics exports batching and processing statistics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/processor"
)

// Metrics groups all Prometheus instruments. It implements both
// batch.StatsCollector and processor.StatsRecorder, and keeps an in-memory
// copy of the accumulator statistics for GetStats.
type Metrics struct {
	ItemsAbsorbed   prometheus.Counter
	WeightAbsorbed  prometheus.Counter
	Batches         *prometheus.CounterVec
	BatchItems      prometheus.Histogram
	BatchWeight     prometheus.Histogram
	ItemsDiscarded  prometheus.Counter
	Errors          *prometheus.CounterVec
	ProcessDuration prometheus.Histogram

	basic *batch.BasicStatsCollector
}

var (
	_ batch.StatsCollector    = (*Metrics)(nil)
	_ processor.StatsRecorder = (*Metrics)(nil)
)

// New registers the instruments with reg under namespace. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ItemsAbsorbed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_absorbed_total",
			Help:      "Items pulled from the upstream.",
		}),
		WeightAbsorbed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weight_absorbed_total",
			Help:      "Total weight of the items pulled from the upstream.",
		}),
		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Emitted batches by cut reason.",
		}, []string{"reason"}),
		BatchItems: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_items",
			Help:      "Number of items per emitted batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		BatchWeight: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_weight",
			Help:      "Weight of each emitted batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		ItemsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_discarded_total",
			Help:      "Buffered items dropped on failure or close.",
		}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by stage.",
		}, []string{"stage"}),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_duration_ms",
			Help:      "Time spent processing one batch in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
		basic: batch.NewBasicStatsCollector(),
	}
}

// RecordItem implements the batch.StatsCollector interface.
func (m *Metrics) RecordItem(weight uint64) {
	m.ItemsAbsorbed.Inc()
	m.WeightAbsorbed.Add(float64(weight))
	m.basic.RecordItem(weight)
}

// RecordBatch implements the batch.StatsCollector interface.
func (m *Metrics) RecordBatch(size int, weight uint64, reason batch.CutReason) {
	m.Batches.WithLabelValues(reason.String()).Inc()
	m.BatchItems.Observe(float64(size))
	m.BatchWeight.Observe(float64(weight))
	m.basic.RecordBatch(size, weight, reason)
}

// RecordDiscarded implements the batch.StatsCollector interface.
func (m *Metrics) RecordDiscarded(size int, weight uint64) {
	m.ItemsDiscarded.Add(float64(size))
	m.basic.RecordDiscarded(size, weight)
}

// RecordUpstreamError implements the batch.StatsCollector interface.
func (m *Metrics) RecordUpstreamError() {
	m.Errors.WithLabelValues("upstream").Inc()
	m.basic.RecordUpstreamError()
}

// RecordWeightError implements the batch.StatsCollector interface.
func (m *Metrics) RecordWeightError() {
	m.Errors.WithLabelValues("weigh").Inc()
	m.basic.RecordWeightError()
}

// GetStats implements the batch.StatsCollector interface.
func (m *Metrics) GetStats() batch.Stats {
	return m.basic.GetStats()
}

// RecordProcessed implements the processor.StatsRecorder interface.
func (m *Metrics) RecordProcessed(_ int, _ uint64, d time.Duration) {
	m.ProcessDuration.Observe(float64(d.Milliseconds()))
}

// RecordProcessorError implements the processor.StatsRecorder interface.
func (m *Metrics) RecordProcessorError() {
	m.Errors.WithLabelValues("process").Inc()
}

// Handler returns an HTTP handler that serves the metrics registered with g.
// A nil g serves the default registry.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
