package display

import (
	"maps"
	"sync"
)

// Overrides хранит последние локальные целевые значения до их потребления
type Overrides struct {
	pending map[string]float64
	mu      sync.Mutex
}

// NewOverrides создает пустой источник
func NewOverrides() *Overrides {
	return &Overrides{}
}

// Set задает новые значения; несъеденные значения сливаются с новыми
func (o *Overrides) Set(targets map[string]float64) {
	if len(targets) == 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pending == nil {
		o.pending = make(map[string]float64, len(targets))
	}
	maps.Copy(o.pending, targets)
}

// OverrideTargets возвращает и сбрасывает ожидающие значения
func (o *Overrides) OverrideTargets() (map[string]float64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.pending) == 0 {
		return nil, false
	}

	out := o.pending
	o.pending = nil
	return out, true
}
