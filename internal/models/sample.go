package models

import "time"

// SampleTimeLayout формат времени семпла на проводе (как его отдает контроллер)
const SampleTimeLayout = "2006-01-02 15:04:05"

// DeviceIdentity идентифицирует узел перед удаленной стороной.
// Неизменяем в течение жизни процесса и прикрепляется к каждому отправляемому семплу.
type DeviceIdentity struct {
	UID            string `json:"uid"`       // UID уникальный идентификатор устройства
	ControllerKind string `json:"node_type"` // ControllerKind тип контроллера (например, "v1", "bronfman")
}

// Sample представляет один набор показаний контроллера с меткой времени.
// Создается Watchdog, после постановки в очередь не изменяется
// и потребляется Synchronizer не более одного раза.
type Sample struct {
	Timestamp time.Time          `json:"time"`      // Timestamp момент чтения (wall clock узла)
	Payload   map[string]float64 `json:"data"`      // Payload показания контроллера
	DeviceID  string             `json:"device_id"` // DeviceID заполняется при отправке из DeviceIdentity
}

// Clone создает глубокую копию семпла
func (s *Sample) Clone() *Sample {
	payload := make(map[string]float64, len(s.Payload))
	for k, v := range s.Payload {
		payload[k] = v
	}

	return &Sample{
		Timestamp: s.Timestamp,
		Payload:   payload,
		DeviceID:  s.DeviceID,
	}
}
