package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/pkg/api"
)

func postSample(t *testing.T, h *SyncHandler, req api.SampleRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleSample(w, r)
	return w
}

func TestSyncHandler_NoTask(t *testing.T) {
	store := &memoryStorage{}
	rec := &recorder{}
	mir := &mirror{}
	handler := NewSyncHandler(setupTestLogger(), store, mir, rec)

	w := postSample(t, handler, api.SampleRequest{
		UID:      "node-7",
		NodeType: "v1",
		Time:     "2024-05-01 12:00:00",
		Data:     map[string]float64{"speed": 4},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	// action присутствует и равен null
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Contains(t, raw, "action")
	assert.Equal(t, "null", string(raw["action"]))

	var resp api.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, api.StatusOK, resp.Status)
	assert.NotEmpty(t, resp.ID)

	require.Len(t, store.samples, 1)
	saved := store.samples[0]
	assert.Equal(t, resp.ID, saved.ID)
	assert.Equal(t, "node-7", saved.DeviceID)
	assert.Equal(t, "v1", saved.NodeType)
	assert.Equal(t, 4.0, saved.Data["speed"])
	assert.True(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Equal(saved.SampledAt))

	assert.Equal(t, 1, rec.stored)
	assert.Equal(t, 0, rec.delivered)
	assert.Len(t, mir.samples, 1)
}

func TestSyncHandler_DeliversTaskOnce(t *testing.T) {
	store := &memoryStorage{}
	store.tasks = append(store.tasks, &models.Task{
		ID:       "task-1",
		DeviceID: "node-7",
		Targets:  map[string]float64{"speed": 10},
	})
	rec := &recorder{}
	handler := NewSyncHandler(setupTestLogger(), store, nil, rec)

	w := postSample(t, handler, api.SampleRequest{UID: "node-7", Data: map[string]float64{"speed": 4}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Action)
	assert.Equal(t, "task-1", resp.Action.ID)
	assert.Equal(t, "node-7", resp.Action.UID)
	assert.Equal(t, map[string]float64{"speed": 10}, resp.Action.Targets)
	assert.Equal(t, 1, rec.delivered)

	w = postSample(t, handler, api.SampleRequest{UID: "node-7", Data: map[string]float64{"speed": 5}})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Action)
}

func TestSyncHandler_OtherDeviceTaskNotDelivered(t *testing.T) {
	store := &memoryStorage{}
	store.tasks = append(store.tasks, &models.Task{ID: "task-1", DeviceID: "node-8", Targets: map[string]float64{"speed": 1}})
	handler := NewSyncHandler(setupTestLogger(), store, nil, nil)

	w := postSample(t, handler, api.SampleRequest{UID: "node-7"})

	var resp api.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Action)
	assert.Len(t, store.tasks, 1)
}

func TestSyncHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{name: "wrong method", method: http.MethodGet, want: http.StatusMethodNotAllowed},
		{name: "invalid json", method: http.MethodPost, body: "{", want: http.StatusBadRequest},
		{name: "missing uid", method: http.MethodPost, body: `{"data":{"t":1}}`, want: http.StatusBadRequest},
		{name: "bad uid", method: http.MethodPost, body: `{"uid":"no spaces allowed"}`, want: http.StatusBadRequest},
		{name: "bad time", method: http.MethodPost, body: `{"uid":"node-7","time":"yesterday"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStorage{}
			handler := NewSyncHandler(setupTestLogger(), store, nil, nil)

			r := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.HandleSample(w, r)

			assert.Equal(t, tt.want, w.Code)
			assert.Empty(t, store.samples)

			var errResp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestSyncHandler_StorageErrors(t *testing.T) {
	t.Run("save fails", func(t *testing.T) {
		store := &memoryStorage{saveErr: errDatabase}
		w := postSample(t, NewSyncHandler(setupTestLogger(), store, nil, nil), api.SampleRequest{UID: "node-7"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("match fails", func(t *testing.T) {
		store := &memoryStorage{matchErr: errDatabase}
		w := postSample(t, NewSyncHandler(setupTestLogger(), store, nil, nil), api.SampleRequest{UID: "node-7"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// семпл уже сохранен
		assert.Len(t, store.samples, 1)
	})
}

func TestSyncHandler_MissingTimeUsesReceiveTime(t *testing.T) {
	store := &memoryStorage{}
	handler := NewSyncHandler(setupTestLogger(), store, nil, nil)
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	handler.now = func() time.Time { return fixed }

	w := postSample(t, handler, api.SampleRequest{UID: "node-7"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, store.samples, 1)
	assert.True(t, fixed.Equal(store.samples[0].SampledAt))
	assert.True(t, fixed.Equal(store.samples[0].ReceivedAt))
	assert.NotNil(t, store.samples[0].Data)
}
