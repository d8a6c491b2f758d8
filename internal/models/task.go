package models

import "time"

// Task представляет отложенную команду (набор целевых значений) для конкретного устройства.
// Принадлежит удаленной стороне до момента выдачи в ответе на семпл,
// после чего ответственность за однократное применение переходит к узлу.
type Task struct {
	CreatedAt time.Time          `json:"created_at"` // CreatedAt время постановки задачи
	Targets   map[string]float64 `json:"targets"`    // Targets целевые значения параметров контроллера
	ID        string             `json:"id"`         // ID уникальный идентификатор задачи (UUID)
	DeviceID  string             `json:"uid"`        // DeviceID устройство, которому адресована задача
}

// StoredSample представляет семпл, сохраненный удаленной стороной (append-only журнал).
type StoredSample struct {
	SampledAt  time.Time          `json:"time"`
	ReceivedAt time.Time          `json:"received_at"`
	Data       map[string]float64 `json:"data"`
	ID         string             `json:"id"`
	DeviceID   string             `json:"uid"`
	NodeType   string             `json:"node_type"`
}
