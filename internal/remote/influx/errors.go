package influx

import "errors"

var (
	// ErrDisabled зеркалирование выключено в конфигурации
	ErrDisabled = errors.New("influx: disabled in configuration")

	// ErrConnectionFailed сервер недоступен или не здоров при подключении
	ErrConnectionFailed = errors.New("influx: connection failed")
)
