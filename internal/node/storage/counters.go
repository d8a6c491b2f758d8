package storage

import "context"

//go:generate moq -out counters_mock.go . CounterStorage

// CounterStorage хранит счетчики обменов, переживающие перезапуск узла
type CounterStorage interface {
	// IncrementCounter increments named counter and returns new value
	IncrementCounter(ctx context.Context, name string) (uint64, error)

	// GetCounters returns all counters
	GetCounters(ctx context.Context) (map[string]uint64, error)
}
