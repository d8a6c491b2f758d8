// Package metrics содержит Prometheus метрики узла.
// Все методы безопасны для nil-получателя: компоненты работают и без метрик.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fieldlink_node"

// Metrics набор метрик узла
type Metrics struct {
	queueLength     prometheus.Gauge
	samplesRead     prometheus.Counter
	samplesDropped  prometheus.Counter
	parseFailures   prometheus.Counter
	exchanges       *prometheus.CounterVec
	applyFailures   prometheus.Counter
	tasksApplied    prometheus.Counter
	tasksDuplicate  prometheus.Counter
	exchangeLatency prometheus.Histogram
	gatherer        prometheus.Gatherer
}

// New создает метрики и регистрирует их в reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sample_queue_length",
			Help:      "Current number of samples buffered in the sample queue.",
		}),
		samplesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_read_total",
			Help:      "Samples read from the controller and enqueued.",
		}),
		samplesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_dropped_total",
			Help:      "Samples evicted from the sample queue by the size ceiling or by task application.",
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Controller frames rejected by checksum or format checks.",
		}),
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchanges_total",
			Help:      "Completed exchanges with the remote by outcome.",
		}, []string{"outcome"}),
		applyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_failures_total",
			Help:      "Tasks whose targets could not be applied to the controller.",
		}),
		tasksApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_applied_total",
			Help:      "Tasks received from the remote and applied.",
		}),
		tasksDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_duplicate_total",
			Help:      "Tasks skipped because they were applied before.",
		}),
		exchangeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_latency_seconds",
			Help:      "Duration of a single push-pull exchange.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.queueLength,
		m.samplesRead,
		m.samplesDropped,
		m.parseFailures,
		m.exchanges,
		m.applyFailures,
		m.tasksApplied,
		m.tasksDuplicate,
		m.exchangeLatency,
	)

	return m
}

// Handler возвращает HTTP обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) SetQueueLength(n int) {
	if m == nil {
		return
	}
	m.queueLength.Set(float64(n))
}

func (m *Metrics) IncSamplesRead() {
	if m == nil {
		return
	}
	m.samplesRead.Inc()
}

func (m *Metrics) AddDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.samplesDropped.Add(float64(n))
}

func (m *Metrics) IncParseFailures() {
	if m == nil {
		return
	}
	m.parseFailures.Inc()
}

// ObserveExchange учитывает завершенный обмен
func (m *Metrics) ObserveExchange(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.exchanges.WithLabelValues(outcome).Inc()
	m.exchangeLatency.Observe(d.Seconds())
}

func (m *Metrics) IncApplyFailures() {
	if m == nil {
		return
	}
	m.applyFailures.Inc()
}

func (m *Metrics) IncTasksApplied() {
	if m == nil {
		return
	}
	m.tasksApplied.Inc()
}

func (m *Metrics) IncTasksDuplicate() {
	if m == nil {
		return
	}
	m.tasksDuplicate.Inc()
}
