package api

import "time"

// StatusOK значение поля status в успешных ответах
const StatusOK = "ok"

// SampleRequest представляет семпл, отправляемый узлом на удаленную сторону
type SampleRequest struct {
	Data     map[string]float64 `json:"data"`      // показания контроллера
	UID      string             `json:"uid"`       // идентификатор устройства
	NodeType string             `json:"node_type"` // тип контроллера
	Time     string             `json:"time"`      // время чтения в формате "2006-01-02 15:04:05"
}

// TaskAction представляет задачу, выданную узлу в ответе на семпл
type TaskAction struct {
	CreatedAt time.Time          `json:"created_at"`
	Targets   map[string]float64 `json:"targets"`
	ID        string             `json:"id"`
	UID       string             `json:"uid"`
}

// SyncResponse представляет ответ удаленной стороны на семпл.
// Action всегда присутствует в JSON: null означает "задач нет".
type SyncResponse struct {
	Action *TaskAction `json:"action"`
	ID     string      `json:"id"`     // идентификатор сохраненного семпла
	Status string      `json:"status"` // "ok"
}
