package storage

import "context"

//go:generate moq -out params_mock.go . ParamsStorage

// ParamsStorage хранит последние применённые целевые значения контроллера
type ParamsStorage interface {
	// SaveParams replaces stored target values
	SaveParams(ctx context.Context, params map[string]float64) error

	// LoadParams returns stored target values.
	// Returns empty map if nothing has been saved yet
	LoadParams(ctx context.Context) (map[string]float64, error)
}
