package controller

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

//go:generate moq -out params_mock.go . ParamStore

// ParamStore сохраняет применённые целевые значения между перезапусками
type ParamStore interface {
	SaveParams(ctx context.Context, params map[string]float64) error
	LoadParams(ctx context.Context) (map[string]float64, error)
}

// Params состояние целевых параметров контроллера.
// SetParams передает значения на контроллер (если задан writer),
// затем сохраняет их (если задан store). Безопасен для конкурентного использования.
type Params struct {
	values map[string]float64
	writer ParamWriter
	store  ParamStore
	mu     sync.RWMutex
}

// NewParams создает состояние параметров; writer и store могут быть nil
func NewParams(writer ParamWriter, store ParamStore) *Params {
	return &Params{
		values: make(map[string]float64),
		writer: writer,
		store:  store,
	}
}

// Restore загружает ранее сохраненные значения из store
func (p *Params) Restore(ctx context.Context) error {
	if p.store == nil {
		return nil
	}

	saved, err := p.store.LoadParams(ctx)
	if err != nil {
		return fmt.Errorf("failed to load params: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	maps.Copy(p.values, saved)

	return nil
}

// SetParams применяет целевые значения поверх текущих.
// Локальное состояние обновляется, только если контроллер принял команду.
func (p *Params) SetParams(ctx context.Context, targets map[string]float64) (map[string]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := maps.Clone(p.values)
	if next == nil {
		next = make(map[string]float64, len(targets))
	}
	maps.Copy(next, targets)

	if p.writer != nil {
		if err := p.writer.WriteParams(ctx, next); err != nil {
			return maps.Clone(p.values), fmt.Errorf("failed to write params to controller: %w", err)
		}
	}

	p.values = next

	if p.store != nil {
		if err := p.store.SaveParams(ctx, next); err != nil {
			return maps.Clone(next), fmt.Errorf("failed to persist params: %w", err)
		}
	}

	return maps.Clone(next), nil
}

// Values возвращает копию текущих значений
func (p *Params) Values() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.values)
}
