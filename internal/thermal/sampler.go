// Package thermal reads CPU temperatures from the OS sensor
// interface.
package thermal

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// cpuSensorPrefixes identifies the sensor keys that report CPU core
// or package temperatures across platforms (Intel coretemp, AMD
// k10temp/zenpower, generic ACPI thermal zones).
var cpuSensorPrefixes = []string{
	"coretemp",
	"k10temp",
	"zenpower",
	"cpu_thermal",
	"acpitz",
}

// readFunc matches sensors.TemperaturesWithContext and exists so
// tests can inject readings.
type readFunc func(ctx context.Context) ([]sensors.TemperatureStat, error)

// Sampler reads the hottest current CPU temperature.
type Sampler struct {
	read readFunc
}

// NewSampler creates a Sampler backed by the OS sensor interface.
func NewSampler() *Sampler {
	return &Sampler{read: sensors.TemperaturesWithContext}
}

// CPUTemperature returns the maximum current temperature in Celsius
// across all CPU thermal sensors. An error means the sensor
// interface is absent or misconfigured and is fatal to the caller.
func (s *Sampler) CPUTemperature(ctx context.Context) (float64, error) {
	stats, err := s.read(ctx)
	if err != nil {
		return 0, fmt.Errorf("unable to read temperature sensors: %w", err)
	}
	if len(stats) == 0 {
		return 0, fmt.Errorf("no temperature sensors reported")
	}

	var max float64
	var found bool
	for _, stat := range stats {
		if !isCPUSensor(stat.SensorKey) {
			continue
		}
		found = true
		if stat.Temperature > max {
			max = stat.Temperature
		}
	}
	if !found {
		return 0, fmt.Errorf("no CPU temperature sensors among %d reported sensors", len(stats))
	}

	return max, nil
}

// isCPUSensor reports whether a sensor key belongs to a CPU core or
// package sensor.
func isCPUSensor(key string) bool {
	key = strings.ToLower(key)
	for _, prefix := range cpuSensorPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
