package handlers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/remote/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// memoryStorage хранилище в памяти для тестов обработчиков
type memoryStorage struct {
	saveErr  error
	matchErr error
	listErr  error
	pingErr  error
	samples  []*models.StoredSample
	tasks    []*models.Task
	mu       sync.Mutex
}

func (m *memoryStorage) SaveSample(_ context.Context, s *models.StoredSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.samples = append(m.samples, s)
	return nil
}

func (m *memoryStorage) ListSamples(_ context.Context, uid string, limit int) ([]*models.StoredSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.StoredSample
	for i := len(m.samples) - 1; i >= 0 && len(out) < limit; i-- {
		if m.samples[i].DeviceID == uid {
			out = append(out, m.samples[i])
		}
	}
	return out, nil
}

func (m *memoryStorage) CreateTask(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *memoryStorage) MatchTask(_ context.Context, uid string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	for i, t := range m.tasks {
		if t.DeviceID == uid {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return t, nil
		}
	}
	return nil, storage.ErrTaskNotFound
}

func (m *memoryStorage) ListTasks(_ context.Context, uid string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Task
	for _, t := range m.tasks {
		if t.DeviceID == uid {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryStorage) Ping(context.Context) error {
	return m.pingErr
}

var errDatabase = errors.New("database is locked")

// recorder считает вызовы метрик
type recorder struct {
	stored    int
	delivered int
	created   int
	mu        sync.Mutex
}

func (r *recorder) SampleStored(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored++
}

func (r *recorder) TaskDelivered(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered++
}

func (r *recorder) TaskCreated(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

// mirror собирает зеркалированные семплы
type mirror struct {
	samples []*models.StoredSample
}

func (m *mirror) Mirror(s *models.StoredSample) {
	m.samples = append(m.samples, s)
}
