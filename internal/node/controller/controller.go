// Package controller описывает взаимодействие узла с физическим контроллером:
// блокирующее чтение семплов и состояние целевых параметров.
package controller

import (
	"context"
	"errors"

	"github.com/iudanet/fieldlink/internal/models"
)

//go:generate moq -out reader_mock.go . Reader

var (
	// ErrParseFailure кадр получен, но не прошел проверку (checksum/формат).
	// Ожидаемый шум канала: вызывающий логирует и продолжает.
	ErrParseFailure = errors.New("controller frame parse failure")

	// ErrLinkClosed канал к контроллеру закрыт
	ErrLinkClosed = errors.New("controller link closed")
)

// Reader блокирующее чтение одного семпла с контроллера.
// Возвращает семпл, ошибку, оборачивающую ErrParseFailure,
// либо любую другую ошибку, означающую, что канал непригоден.
type Reader interface {
	ReadSample(ctx context.Context) (*models.Sample, error)
}

// ParamWriter передает целевые значения параметров на контроллер
type ParamWriter interface {
	WriteParams(ctx context.Context, params map[string]float64) error
}
