package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/remote/storage"
)

// CreateTask adds a pending task; tasks of one device are handed out in insertion order
func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	targets, err := json.Marshal(task.Targets)
	if err != nil {
		return fmt.Errorf("failed to marshal targets: %w", err)
	}

	query := `
		INSERT INTO tasks (id, uid, targets, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.DeviceID,
		string(targets),
		task.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// MatchTask находит и удаляет самую старую задачу устройства одним оператором.
// Поиск и удаление не разделены, поэтому задача не может быть выдана дважды.
func (s *Storage) MatchTask(ctx context.Context, uid string) (*models.Task, error) {
	query := `
		DELETE FROM tasks
		WHERE seq = (
			SELECT seq FROM tasks
			WHERE uid = ?
			ORDER BY seq
			LIMIT 1
		)
		RETURNING id, uid, targets, created_at
	`

	var (
		task      models.Task
		targets   string
		createdAt int64
	)

	err := s.db.QueryRowContext(ctx, query, uid).Scan(&task.ID, &task.DeviceID, &targets, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to match task: %w", err)
	}

	if err := json.Unmarshal([]byte(targets), &task.Targets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %s targets: %w", task.ID, err)
	}
	task.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &task, nil
}

// ListTasks returns pending tasks for uid in handout order
func (s *Storage) ListTasks(ctx context.Context, uid string) ([]*models.Task, error) {
	query := `
		SELECT id, uid, targets, created_at
		FROM tasks
		WHERE uid = ?
		ORDER BY seq
	`

	rows, err := s.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		var (
			task      models.Task
			targets   string
			createdAt int64
		)

		if err := rows.Scan(&task.ID, &task.DeviceID, &targets, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		if err := json.Unmarshal([]byte(targets), &task.Targets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task %s targets: %w", task.ID, err)
		}
		task.CreatedAt = time.Unix(createdAt, 0).UTC()
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}
