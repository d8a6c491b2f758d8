package api

import "time"

// Статусы ответа на постановку задачи (совместимы с /api/update_queue)
const (
	TaskStatusOK    = "ok"
	TaskStatusBad   = "bad"
	TaskStatusAwful = "awful"
)

// CreateTaskRequest представляет запрос оператора на постановку задачи устройству
type CreateTaskRequest struct {
	Targets map[string]float64 `json:"targets"`
	UID     string             `json:"uid"`
}

// CreateTaskResponse представляет ответ на постановку задачи
type CreateTaskResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// TaskListResponse список ожидающих задач устройства
type TaskListResponse struct {
	Tasks []TaskAction `json:"tasks"`
}

// SampleRecord семпл, сохраненный удаленной стороной
type SampleRecord struct {
	Time       time.Time          `json:"time"`
	ReceivedAt time.Time          `json:"received_at"`
	Data       map[string]float64 `json:"data"`
	ID         string             `json:"id"`
	UID        string             `json:"uid"`
	NodeType   string             `json:"node_type"`
}

// SampleListResponse последние семплы устройства
type SampleListResponse struct {
	Samples []SampleRecord `json:"samples"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
