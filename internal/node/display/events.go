// Package display связывает узел с панелью отображения.
//
// Узел публикует события (семпл отправлен, применены целевые значения) в Bus,
// а панель может задать локальные целевые значения через OverrideSource.
// Если панели нет, используются Nop и NullOverrides.
package display

import (
	"time"

	"github.com/iudanet/fieldlink/internal/models"
)

// EventKind тип события узла
type EventKind string

const (
	// EventSampleSent семпл передан удаленной стороне
	EventSampleSent EventKind = "sample_sent"
	// EventTargetsApplied целевые значения применены к контроллеру
	EventTargetsApplied EventKind = "targets_applied"
)

// Event событие для панели отображения
type Event struct {
	At      time.Time          `json:"at"`
	Sample  *models.Sample     `json:"sample,omitempty"`
	Targets map[string]float64 `json:"targets,omitempty"`
	Kind    EventKind          `json:"kind"`
	TaskID  string             `json:"task_id,omitempty"`
	Source  string             `json:"source,omitempty"` // remote или override
	Status  int                `json:"status,omitempty"`
}

// Publisher принимает события узла.
// Publish не должен блокировать цикл синхронизации.
type Publisher interface {
	Publish(ev Event)
}

// OverrideSource локальные целевые значения, заданные оператором на панели.
// OverrideTargets возвращает значения один раз: повторный вызов вернет false,
// пока оператор не задаст новые.
type OverrideSource interface {
	OverrideTargets() (map[string]float64, bool)
}

// Nop публикатор, отбрасывающий события
type Nop struct{}

func (Nop) Publish(Event) {}

// NullOverrides источник без локальных значений
type NullOverrides struct{}

func (NullOverrides) OverrideTargets() (map[string]float64, bool) {
	return nil, false
}
