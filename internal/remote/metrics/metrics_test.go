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

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SampleStored("node-7")
	m.SampleStored("node-7")
	m.TaskCreated("node-7")
	m.TaskDelivered("node-8")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.samplesStored.WithLabelValues("node-7")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues("node-7")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksDelivered.WithLabelValues("node-8")))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry(), "/", "/api/v1/samples")

	m.ObserveRequest("/", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest("/api/v1/samples", http.StatusBadRequest, time.Millisecond)
	m.ObserveRequest("/wp-login.php", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/samples", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("other", "404")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SampleStored("node-7")
		m.TaskCreated("node-7")
		m.TaskDelivered("node-7")
		m.ObserveRequest("/", http.StatusOK, time.Millisecond)
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SampleStored("node-7")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fieldlink_remote_samples_stored_total{uid="node-7"} 1`)
}
