package validation

import (
	"fmt"
	"math"
	"regexp"
)

// DeviceIDPattern определяет допустимый формат идентификатора устройства
// Латинские буквы, цифры, '-', '_' и '.', первый символ - буква или цифра
var DeviceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

const (
	// MaxDeviceIDLen максимальная длина идентификатора устройства
	MaxDeviceIDLen = 64
	// MaxTargets максимальное количество целевых значений в одной задаче
	MaxTargets = 64
)

// ValidateDeviceID проверяет идентификатор устройства
func ValidateDeviceID(uid string) error {
	if uid == "" {
		return fmt.Errorf("uid cannot be empty")
	}

	if len(uid) > MaxDeviceIDLen {
		return fmt.Errorf("uid must not exceed %d characters", MaxDeviceIDLen)
	}

	if !DeviceIDPattern.MatchString(uid) {
		return fmt.Errorf("uid can only contain letters, numbers, '-', '_' and '.'")
	}

	return nil
}

// ValidateTargets проверяет набор целевых значений задачи
func ValidateTargets(targets map[string]float64) error {
	if len(targets) == 0 {
		return fmt.Errorf("targets cannot be empty")
	}

	if len(targets) > MaxTargets {
		return fmt.Errorf("targets must not exceed %d entries", MaxTargets)
	}

	for name, value := range targets {
		if name == "" {
			return fmt.Errorf("target name cannot be empty")
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("target %q must be a finite number", name)
		}
	}

	return nil
}
