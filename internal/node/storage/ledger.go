package storage

import (
	"context"
	"time"
)

//go:generate moq -out ledger_mock.go . TaskLedger

// TaskLedger журнал задач, уже применённых на узле.
// Задача с тем же ID повторно не применяется.
type TaskLedger interface {
	// MarkApplied records task id as applied.
	// Returns false if the id was already recorded
	MarkApplied(ctx context.Context, taskID string, at time.Time) (bool, error)

	// IsApplied reports whether task id was already applied
	IsApplied(ctx context.Context, taskID string) (bool, error)
}
