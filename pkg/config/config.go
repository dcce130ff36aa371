package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the configuration for the cputemp2rgb daemon
type Config struct {
	// OpenRGB SDK server configuration
	OpenRGBHost string
	OpenRGBPort int

	// Sampling loop configuration
	UpdateIntervalSec int
	Colorshift        float64

	// Daemon configuration
	Foreground bool
	PIDFile    string
	LogFile    string

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// MQTT telemetry configuration (optional)
	MQTTEnabled  bool
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis history configuration (optional)
	RedisEnabled    bool
	RedisHost       string
	RedisPort       int
	RedisPassword   string
	RedisDB         int
	HistoryMaxHours float64
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OpenRGBHost:       "localhost",
		OpenRGBPort:       6742,
		UpdateIntervalSec: 5,
		Colorshift:        0.0,
		Foreground:        false,
		PIDFile:           "/tmp/cputemp2rgb.pid",
		LogFile:           "/tmp/cputemp2rgb.log",
		ServiceName:       "cputemp2rgb",
		HealthPort:        8080,
		LogLevel:          "info",
		MQTTEnabled:       false,
		MQTTBroker:        "localhost",
		MQTTPort:          1883,
		MQTTUser:          "",
		MQTTPassword:      "",
		MQTTClientID:      "",
		RedisEnabled:      false,
		RedisHost:         "localhost",
		RedisPort:         6379,
		RedisPassword:     "",
		RedisDB:           0,
		HistoryMaxHours:   1.0,
	}
}

// LoadFromEnv loads configuration from environment variables with CPUTEMP2RGB_ prefix
func (c *Config) LoadFromEnv() {
	// OpenRGB configuration
	if v := os.Getenv("CPUTEMP2RGB_OPENRGB_HOST"); v != "" {
		c.OpenRGBHost = v
	}
	if v := os.Getenv("CPUTEMP2RGB_OPENRGB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.OpenRGBPort = port
		}
	}

	// Sampling loop configuration
	if v := os.Getenv("CPUTEMP2RGB_UPDATE_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.UpdateIntervalSec = interval
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_COLORSHIFT"); v != "" {
		if shift, err := strconv.ParseFloat(v, 64); err == nil {
			c.Colorshift = shift
		}
	}

	// Daemon configuration
	if v := os.Getenv("CPUTEMP2RGB_FOREGROUND"); v != "" {
		if fg, err := strconv.ParseBool(v); err == nil {
			c.Foreground = fg
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_PID_FILE"); v != "" {
		c.PIDFile = v
	}
	if v := os.Getenv("CPUTEMP2RGB_LOG_FILE"); v != "" {
		c.LogFile = v
	}

	// Service configuration
	if v := os.Getenv("CPUTEMP2RGB_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("CPUTEMP2RGB_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// MQTT telemetry configuration
	if v := os.Getenv("CPUTEMP2RGB_MQTT_ENABLED"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.MQTTEnabled = enable
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("CPUTEMP2RGB_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("CPUTEMP2RGB_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("CPUTEMP2RGB_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis history configuration
	if v := os.Getenv("CPUTEMP2RGB_REDIS_ENABLED"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.RedisEnabled = enable
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("CPUTEMP2RGB_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("CPUTEMP2RGB_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}
	if v := os.Getenv("CPUTEMP2RGB_HISTORY_MAX_HOURS"); v != "" {
		if hours, err := strconv.ParseFloat(v, 64); err == nil {
			c.HistoryMaxHours = hours
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// OpenRGB flags
	pflag.StringVar(&c.OpenRGBHost, "openrgb-host", c.OpenRGBHost, "OpenRGB SDK server hostname")
	pflag.IntVar(&c.OpenRGBPort, "openrgb-port", c.OpenRGBPort, "OpenRGB SDK server port")

	// Sampling loop flags
	pflag.IntVar(&c.UpdateIntervalSec, "update-interval", c.UpdateIntervalSec, "Seconds between temperature samples")
	pflag.Float64Var(&c.Colorshift, "colorshift", c.Colorshift, "Color gradient shift (negative = more red, positive = more blue)")

	// Daemon flags
	pflag.BoolVar(&c.Foreground, "foreground", c.Foreground, "Run in the foreground instead of daemonizing")
	pflag.StringVar(&c.PIDFile, "pid-file", c.PIDFile, "PID file path")
	pflag.StringVar(&c.LogFile, "log-file", c.LogFile, "Daemon log file path")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// MQTT telemetry flags
	pflag.BoolVar(&c.MQTTEnabled, "mqtt-enabled", c.MQTTEnabled, "Publish state to an MQTT broker")
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis history flags
	pflag.BoolVar(&c.RedisEnabled, "redis-enabled", c.RedisEnabled, "Record reading history in Redis")
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")
	pflag.Float64Var(&c.HistoryMaxHours, "history-max-hours", c.HistoryMaxHours, "Maximum age of retained readings (hours)")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.OpenRGBHost == "" {
		return fmt.Errorf("OpenRGB host is required")
	}
	if c.OpenRGBPort <= 0 || c.OpenRGBPort > 65535 {
		return fmt.Errorf("OpenRGB port must be between 1 and 65535")
	}
	if c.UpdateIntervalSec <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.PIDFile == "" {
		return fmt.Errorf("PID file path is required")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.MQTTEnabled {
		if c.MQTTBroker == "" {
			return fmt.Errorf("MQTT broker is required when MQTT is enabled")
		}
		if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
			return fmt.Errorf("MQTT port must be between 1 and 65535")
		}
	}
	if c.RedisEnabled {
		if c.RedisHost == "" {
			return fmt.Errorf("Redis host is required when Redis is enabled")
		}
		if c.RedisPort <= 0 || c.RedisPort > 65535 {
			return fmt.Errorf("Redis port must be between 1 and 65535")
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// OpenRGBAddress returns the full OpenRGB SDK server address
func (c *Config) OpenRGBAddress() string {
	return fmt.Sprintf("%s:%d", c.OpenRGBHost, c.OpenRGBPort)
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
