package influx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldlink/internal/config"
	"github.com/iudanet/fieldlink/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeInflux принимает ping и запись line protocol
type fakeInflux struct {
	lines []string
	mu    sync.Mutex
}

func (f *fakeInflux) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v2/write", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
			if line != "" {
				f.lines = append(f.lines, line)
			}
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (f *fakeInflux) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "fieldlink",
		Bucket:        "samples",
		BatchSize:     10,
		FlushInterval: 50,
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	_, err := Connect(context.Background(), cfg, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := Connect(context.Background(), testConfig(url), testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnectionFailed))
}

func TestMirror_WritesSamples(t *testing.T) {
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	m, err := Connect(context.Background(), testConfig(srv.URL), testLogger())
	require.NoError(t, err)

	m.Mirror(&models.StoredSample{
		ID:        "s-1",
		DeviceID:  "node-7",
		NodeType:  "v1",
		SampledAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Data:      map[string]float64{"temp": 22.5},
	})
	// пустые показания не пишутся
	m.Mirror(&models.StoredSample{ID: "s-2", DeviceID: "node-7"})
	m.Flush()

	require.Eventually(t, func() bool {
		return len(fake.written()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	line := fake.written()[0]
	assert.True(t, strings.HasPrefix(line, "sample,node_type=v1,uid=node-7 "), line)
	assert.Contains(t, line, "temp=22.5")

	require.NoError(t, m.Close())
}

func TestSamplePoint(t *testing.T) {
	sampled := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	received := sampled.Add(time.Second)

	tests := []struct {
		sample *models.StoredSample
		name   string
		prefix string
		field  string
		suffix string
	}{
		{
			name: "full sample",
			sample: &models.StoredSample{
				DeviceID:  "node-7",
				NodeType:  "v1",
				SampledAt: sampled,
				Data:      map[string]float64{"temp": 22.5, "rh": 45},
			},
			prefix: "sample,node_type=v1,uid=node-7 ",
			field:  "temp=22.5",
			suffix: " 1709294400",
		},
		{
			name: "no node type, receive time fallback",
			sample: &models.StoredSample{
				DeviceID:   "node-8",
				ReceivedAt: received,
				Data:       map[string]float64{"temp": 1.5},
			},
			prefix: "sample,uid=node-8 ",
			field:  "temp=1.5",
			suffix: " 1709294401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePoint(tt.sample)
			require.NotNil(t, p)

			line := strings.TrimSpace(write.PointToLineProtocol(p, time.Second))
			assert.True(t, strings.HasPrefix(line, tt.prefix), line)
			assert.Contains(t, line, tt.field)
			assert.True(t, strings.HasSuffix(line, tt.suffix), line)
		})
	}

	assert.Nil(t, samplePoint(nil))
	assert.Nil(t, samplePoint(&models.StoredSample{DeviceID: "node-7"}))
}
