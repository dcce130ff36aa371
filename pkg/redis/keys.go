package redis

import "fmt"

// ThermalSensorKey returns the key for thermal reading history
// (sorted set scored by unix-millis timestamp)
// Pattern: sensor:thermal:{host}
func ThermalSensorKey(host string) string {
	return fmt.Sprintf("sensor:thermal:%s", host)
}
