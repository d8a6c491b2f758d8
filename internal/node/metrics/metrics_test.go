package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetQueueLength(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.queueLength))

	m.AddDropped(3)
	m.AddDropped(0)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.samplesDropped))

	m.IncSamplesRead()
	m.IncParseFailures()
	m.IncApplyFailures()
	m.IncTasksApplied()
	m.IncTasksDuplicate()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.samplesRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applyFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksDuplicate))

	m.ObserveExchange("delivered", 20*time.Millisecond)
	m.ObserveExchange("rejected", time.Second)
	m.ObserveExchange("rejected", time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exchanges.WithLabelValues("delivered")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.exchanges.WithLabelValues("rejected")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.exchangeLatency))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SetQueueLength(1)
		m.AddDropped(1)
		m.IncSamplesRead()
		m.IncParseFailures()
		m.ObserveExchange("delivered", time.Millisecond)
		m.IncApplyFailures()
		m.IncTasksApplied()
		m.IncTasksDuplicate()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetQueueLength(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "fieldlink_node_sample_queue_length 2")
}
