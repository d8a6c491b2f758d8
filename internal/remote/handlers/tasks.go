package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/validation"
	"github.com/iudanet/fieldlink/pkg/api"
)

// TaskStorage хранилище, нужное постановке и просмотру задач
type TaskStorage interface {
	CreateTask(ctx context.Context, task *models.Task) error
	ListTasks(ctx context.Context, uid string) ([]*models.Task, error)
}

// TaskRecorder учитывает поставленные задачи
type TaskRecorder interface {
	TaskCreated(uid string)
}

// TaskHandler постановка задач устройствам
type TaskHandler struct {
	logger   *slog.Logger
	storage  TaskStorage
	recorder TaskRecorder
	now      func() time.Time
}

// NewTaskHandler creates a new task handler; recorder may be nil
func NewTaskHandler(logger *slog.Logger, storage TaskStorage, recorder TaskRecorder) *TaskHandler {
	return &TaskHandler{
		logger:   logger,
		storage:  storage,
		recorder: recorder,
		now:      time.Now,
	}
}

// HandleTasks обрабатывает POST и GET /api/v1/tasks
func (h *TaskHandler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "only GET and POST are supported")
	}
}

// handleCreate обрабатывает POST /api/v1/tasks с JSON телом
func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSampleBody)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode task request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateDeviceID(req.UID); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateTargets(req.Targets); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.create(r.Context(), req.UID, req.Targets)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "failed to create task")
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, api.CreateTaskResponse{
		Status: api.TaskStatusOK,
		ID:     task.ID,
	})
}

// handleList обрабатывает GET /api/v1/tasks?uid=
func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if err := validation.ValidateDeviceID(uid); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.storage.ListTasks(r.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to list tasks", "uid", uid, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	resp := api.TaskListResponse{Tasks: make([]api.TaskAction, 0, len(tasks))}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, api.TaskAction{
			ID:        task.ID,
			UID:       task.DeviceID,
			Targets:   task.Targets,
			CreatedAt: task.CreatedAt,
		})
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// HandleUpdateQueue обрабатывает /api/update_queue: форма с полем uid,
// остальные поля формы - целевые значения.
// Отвечает всегда 200 со статусом ok, bad (некорректная форма) или awful (не POST).
func (h *TaskHandler) HandleUpdateQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, h.logger, http.StatusOK, api.CreateTaskResponse{Status: api.TaskStatusAwful})
		return
	}

	bad := api.CreateTaskResponse{Status: api.TaskStatusBad}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Failed to parse task form", "error", err)
		writeJSON(w, h.logger, http.StatusOK, bad)
		return
	}

	uid := r.PostForm.Get("uid")
	if err := validation.ValidateDeviceID(uid); err != nil {
		h.logger.Warn("Invalid task form", "error", err)
		writeJSON(w, h.logger, http.StatusOK, bad)
		return
	}

	targets := make(map[string]float64, len(r.PostForm))
	for key, values := range r.PostForm {
		if key == "uid" || len(values) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			h.logger.Warn("Invalid target value", "uid", uid, "target", key, "value", values[0])
			writeJSON(w, h.logger, http.StatusOK, bad)
			return
		}
		targets[key] = v
	}

	if err := validation.ValidateTargets(targets); err != nil {
		h.logger.Warn("Invalid task form", "uid", uid, "error", err)
		writeJSON(w, h.logger, http.StatusOK, bad)
		return
	}

	task, err := h.create(r.Context(), uid, targets)
	if err != nil {
		writeJSON(w, h.logger, http.StatusOK, bad)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.CreateTaskResponse{Status: api.TaskStatusOK, ID: task.ID})
}

func (h *TaskHandler) create(ctx context.Context, uid string, targets map[string]float64) (*models.Task, error) {
	task := &models.Task{
		ID:        uuid.New().String(),
		DeviceID:  uid,
		Targets:   targets,
		CreatedAt: h.now().UTC(),
	}

	if err := h.storage.CreateTask(ctx, task); err != nil {
		h.logger.Error("Failed to create task", "uid", uid, "error", err)
		return nil, err
	}

	if h.recorder != nil {
		h.recorder.TaskCreated(uid)
	}
	h.logger.Info("Task queued", "uid", uid, "task_id", task.ID, "targets", len(targets))

	return task, nil
}
