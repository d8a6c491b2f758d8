package storage

import (
	"context"

	"github.com/iudanet/fieldlink/internal/models"
)

// TaskStorage очередь ожидающих задач по устройствам
type TaskStorage interface {
	// CreateTask adds a pending task for task.DeviceID
	CreateTask(ctx context.Context, task *models.Task) error

	// MatchTask atomically removes and returns the oldest pending task for uid.
	// Returns ErrTaskNotFound if the device has no pending tasks.
	// A task is never returned twice, whatever the interleaving of callers
	MatchTask(ctx context.Context, uid string) (*models.Task, error)

	// ListTasks returns pending tasks for uid in handout order
	ListTasks(ctx context.Context, uid string) ([]*models.Task, error)
}
