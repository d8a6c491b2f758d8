package models

import (
	"fmt"
	"net/http"
)

// ResponseEntry результат одной передачи семпла: код статуса и сырое тело ответа.
// Каждая запись соответствует ровно одной передаче и разрешается ровно один раз.
type ResponseEntry struct {
	Body       []byte
	StatusCode int
}

// StatusAbsent означает, что код статуса отсутствует
const StatusAbsent = 0

// OutcomeKind тег варианта SyncOutcome
type OutcomeKind int

const (
	// OutcomeUnknown статус отсутствует или не входит в известный набор
	OutcomeUnknown OutcomeKind = iota
	// OutcomeDelivered сервер принял семпл и выдал задачу
	OutcomeDelivered
	// OutcomeAcknowledged сервер принял семпл, задач для устройства нет
	OutcomeAcknowledged
	// OutcomeRejected сервер недоступен или отказал
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeAcknowledged:
		return "acknowledged"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RejectReason причина отказа
type RejectReason string

const (
	// ReasonConnectivity сервер недоступен или отклонил запрос (400)
	ReasonConnectivity RejectReason = "connectivity"
	// ReasonServer сервер доступен, но не смог обработать запрос (500)
	ReasonServer RejectReason = "server_error"
)

// SyncOutcome закрытый вариант результата обмена, получаемый одним шагом
// декодирования на сетевой границе. Reconciler работает только с ним.
type SyncOutcome struct {
	Task       *Task
	Reason     RejectReason
	Detail     string
	Kind       OutcomeKind
	StatusCode int
}

// Delivered создает результат с выданной задачей
func Delivered(task *Task) SyncOutcome {
	return SyncOutcome{Kind: OutcomeDelivered, Task: task, StatusCode: http.StatusOK}
}

// Acknowledged создает результат успешного обмена без задачи
func Acknowledged() SyncOutcome {
	return SyncOutcome{Kind: OutcomeAcknowledged, StatusCode: http.StatusOK}
}

// Rejected создает результат отказа
func Rejected(statusCode int, reason RejectReason, detail string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeRejected, StatusCode: statusCode, Reason: reason, Detail: detail}
}

// Unknown создает результат с неизвестным или отсутствующим статусом
func Unknown(statusCode int, detail string) SyncOutcome {
	return SyncOutcome{Kind: OutcomeUnknown, StatusCode: statusCode, Detail: detail}
}

// Failed возвращает true, если обмен считается неудачным (для счетчика ошибок)
func (o SyncOutcome) Failed() bool {
	return o.Kind == OutcomeRejected || o.Kind == OutcomeUnknown
}

func (o SyncOutcome) String() string {
	switch o.Kind {
	case OutcomeDelivered:
		if o.Task == nil {
			return "delivered"
		}
		return fmt.Sprintf("delivered(task=%s)", o.Task.ID)
	case OutcomeRejected:
		return fmt.Sprintf("rejected(%d, %s)", o.StatusCode, o.Reason)
	case OutcomeAcknowledged:
		return "acknowledged"
	default:
		return fmt.Sprintf("unknown(%d)", o.StatusCode)
	}
}
