package thermal

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/sensors"
)

func fakeReader(stats []sensors.TemperatureStat, err error) readFunc {
	return func(ctx context.Context) ([]sensors.TemperatureStat, error) {
		return stats, err
	}
}

func TestCPUTemperature_MaxAcrossCores(t *testing.T) {
	s := &Sampler{read: fakeReader([]sensors.TemperatureStat{
		{SensorKey: "coretemp_core_0", Temperature: 48.0},
		{SensorKey: "coretemp_core_1", Temperature: 61.5},
		{SensorKey: "coretemp_packageid0", Temperature: 59.0},
		{SensorKey: "nvme_composite", Temperature: 77.0},
	}, nil)}

	temp, err := s.CPUTemperature(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if temp != 61.5 {
		t.Errorf("Expected hottest core 61.5, got %v", temp)
	}
}

func TestCPUTemperature_AMDSensors(t *testing.T) {
	s := &Sampler{read: fakeReader([]sensors.TemperatureStat{
		{SensorKey: "k10temp_tctl", Temperature: 72.3},
		{SensorKey: "k10temp_tdie", Temperature: 70.1},
	}, nil)}

	temp, err := s.CPUTemperature(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if temp != 72.3 {
		t.Errorf("Expected 72.3, got %v", temp)
	}
}

func TestCPUTemperature_ReadError(t *testing.T) {
	s := &Sampler{read: fakeReader(nil, errors.New("sensors not supported"))}

	if _, err := s.CPUTemperature(context.Background()); err == nil {
		t.Error("Expected error when sensor read fails")
	}
}

func TestCPUTemperature_NoSensors(t *testing.T) {
	s := &Sampler{read: fakeReader([]sensors.TemperatureStat{}, nil)}

	if _, err := s.CPUTemperature(context.Background()); err == nil {
		t.Error("Expected error when no sensors are reported")
	}
}

func TestCPUTemperature_NoCPUSensors(t *testing.T) {
	s := &Sampler{read: fakeReader([]sensors.TemperatureStat{
		{SensorKey: "nvme_composite", Temperature: 45.0},
		{SensorKey: "iwlwifi_1", Temperature: 52.0},
	}, nil)}

	if _, err := s.CPUTemperature(context.Background()); err == nil {
		t.Error("Expected error when only non-CPU sensors are present")
	}
}
