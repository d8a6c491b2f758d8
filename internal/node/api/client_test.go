package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldlink/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5000/", 0)

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:5000/", client.url)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)

	client = NewClient("http://localhost:5000/", 3*time.Second)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
}

// TestClient_PushSample проверяет успешную отправку семпла
func TestClient_PushSample(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.SampleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "dev-1", req.UID)
		assert.Equal(t, "v1", req.NodeType)
		assert.Equal(t, "2024-05-01 12:00:00", req.Time)
		assert.Equal(t, 21.5, req.Data["temp"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"s-1","status":"ok","action":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)

	status, body, err := client.PushSample(context.Background(), api.SampleRequest{
		UID:      "dev-1",
		NodeType: "v1",
		Time:     "2024-05-01 12:00:00",
		Data:     map[string]float64{"temp": 21.5},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":"s-1","status":"ok","action":null}`, string(body))
}

// TestClient_PushSample_ErrorStatus код ошибки сервера возвращается как есть
func TestClient_PushSample_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"invalid"}`},
		{name: "teapot", status: http.StatusTeapot, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			status, body, err := NewClient(server.URL, time.Second).PushSample(context.Background(), api.SampleRequest{UID: "dev-1"})
			require.NoError(t, err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

// TestClient_Timeout обмен ограничен по времени
func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)

	_, _, err := client.PushSample(context.Background(), api.SampleRequest{UID: "dev-1"})
	assert.Error(t, err)
}

// TestClient_ContextCancellation отмена контекста прерывает запрос
func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewClient(server.URL, time.Second).PushSample(ctx, api.SampleRequest{UID: "dev-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestClient_Unreachable сервер недоступен
func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, _, err := NewClient(url, time.Second).PushSample(context.Background(), api.SampleRequest{UID: "dev-1"})
	assert.Error(t, err)
}

// TestClient_NoRedirect редирект не выполняется
func TestClient_NoRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer server.Close()

	status, _, err := NewClient(server.URL, time.Second).PushSample(context.Background(), api.SampleRequest{UID: "dev-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, status)
}
