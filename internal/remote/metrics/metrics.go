// Package metrics содержит Prometheus метрики удаленной стороны.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "fieldlink_remote"

	// otherPath метка для путей вне известных маршрутов
	otherPath = "other"
)

// Metrics набор метрик удаленной стороны. Методы безопасны для nil-получателя.
type Metrics struct {
	samplesStored   *prometheus.CounterVec
	tasksCreated    *prometheus.CounterVec
	tasksDelivered  *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	gatherer        prometheus.Gatherer
	paths           map[string]struct{}
}

// New регистрирует метрики в reg.
// paths - известные маршруты; остальные пути учитываются с меткой "other".
func New(reg *prometheus.Registry, paths ...string) *Metrics {
	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}

	m := &Metrics{
		samplesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_stored_total",
			Help:      "Samples accepted and persisted, by device.",
		}, []string{"uid"}),
		tasksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Tasks submitted for a device.",
		}, []string{"uid"}),
		tasksDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_delivered_total",
			Help:      "Tasks matched and handed to a device in a sync response.",
		}, []string{"uid"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		gatherer: reg,
		paths:    known,
	}

	reg.MustRegister(
		m.samplesStored,
		m.tasksCreated,
		m.tasksDelivered,
		m.requests,
		m.requestDuration,
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

func (m *Metrics) SampleStored(uid string) {
	if m == nil {
		return
	}
	m.samplesStored.WithLabelValues(uid).Inc()
}

func (m *Metrics) TaskCreated(uid string) {
	if m == nil {
		return
	}
	m.tasksCreated.WithLabelValues(uid).Inc()
}

func (m *Metrics) TaskDelivered(uid string) {
	if m == nil {
		return
	}
	m.tasksDelivered.WithLabelValues(uid).Inc()
}

// ObserveRequest учитывает завершенный HTTP запрос
func (m *Metrics) ObserveRequest(path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if _, ok := m.paths[path]; !ok {
		path = otherPath
	}
	m.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(d.Seconds())
}
