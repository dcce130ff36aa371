package lightsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SymenMulders/cputemp2rgb/internal/colormap"
	"github.com/SymenMulders/cputemp2rgb/pkg/config"
	"github.com/SymenMulders/cputemp2rgb/pkg/mqtt"
	"github.com/SymenMulders/cputemp2rgb/pkg/redis"
)

// StateMessage is the JSON payload published after each lighting
// update and stored in the reading history.
type StateMessage struct {
	ReadingID    string  `json:"reading_id"`
	Host         string  `json:"host"`
	TemperatureC float64 `json:"temperature_c"`
	Red          uint8   `json:"red"`
	Green        uint8   `json:"green"`
	Blue         uint8   `json:"blue"`
	Timestamp    string  `json:"timestamp"`
}

// Telemetry fans readings out to the optional MQTT and Redis sinks.
// Sink failures are logged and swallowed: the control loop retains no
// history and owes these sinks nothing.
type Telemetry struct {
	mqtt   mqtt.Client
	redis  redis.Client
	cfg    *config.Config
	logger *slog.Logger
	host   string
	now    func() time.Time
}

// NewTelemetry creates a telemetry fan-out. Either client may be nil
// when that sink is disabled.
func NewTelemetry(mqttClient mqtt.Client, redisClient redis.Client, host string, cfg *config.Config, logger *slog.Logger) *Telemetry {
	return &Telemetry{
		mqtt:   mqttClient,
		redis:  redisClient,
		cfg:    cfg,
		logger: logger,
		host:   host,
		now:    time.Now,
	}
}

// Start connects the configured sinks and announces the daemon.
func (t *Telemetry) Start(ctx context.Context) error {
	if t.mqtt != nil {
		if err := t.mqtt.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to MQTT: %w", err)
		}
		t.announce("started")
	}

	if t.redis != nil {
		if err := t.redis.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
	}

	return nil
}

// Record publishes one reading to every configured sink.
func (t *Telemetry) Record(ctx context.Context, temp float64, color colormap.Color) {
	msg := StateMessage{
		ReadingID:    uuid.NewString(),
		Host:         t.host,
		TemperatureC: temp,
		Red:          color.Red,
		Green:        color.Green,
		Blue:         color.Blue,
		Timestamp:    t.now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		t.logger.Error("Failed to marshal state message", "error", err)
		return
	}

	if t.mqtt != nil {
		topic := mqtt.StateTopic(t.host)
		if err := t.mqtt.Publish(topic, 0, false, payload); err != nil {
			t.logger.Warn("Failed to publish state message", "topic", topic, "error", err)
		}
	}

	if t.redis != nil {
		t.record(ctx, payload)
	}
}

// record appends a reading to the Redis history sorted set and trims
// entries older than the configured window.
func (t *Telemetry) record(ctx context.Context, payload []byte) {
	key := redis.ThermalSensorKey(t.host)
	now := t.now()
	maxAge := time.Duration(t.cfg.HistoryMaxHours * float64(time.Hour))

	if err := t.redis.ZAdd(ctx, key, float64(now.UnixMilli()), string(payload)); err != nil {
		t.logger.Warn("Failed to record reading history", "key", key, "error", err)
		return
	}

	cutoff := now.Add(-maxAge).UnixMilli()
	if err := t.redis.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff)); err != nil {
		t.logger.Warn("Failed to trim reading history", "key", key, "error", err)
	}

	// TTL covers the case where the daemon stops and the key would
	// otherwise linger forever.
	if err := t.redis.Expire(ctx, key, 2*maxAge); err != nil {
		t.logger.Warn("Failed to refresh history TTL", "key", key, "error", err)
	}
}

// announce publishes a lifecycle status message.
func (t *Telemetry) announce(status string) {
	payload, err := json.Marshal(map[string]string{
		"host":      t.host,
		"status":    status,
		"timestamp": t.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	topic := mqtt.StatusTopic(t.host)
	if err := t.mqtt.Publish(topic, 0, true, payload); err != nil {
		t.logger.Warn("Failed to publish status message", "topic", topic, "error", err)
	}
}

// Close announces shutdown and disconnects the sinks.
func (t *Telemetry) Close() {
	if t.mqtt != nil {
		t.announce("stopping")
		t.mqtt.Disconnect()
	}

	if t.redis != nil {
		if err := t.redis.Close(); err != nil {
			t.logger.Error("Error closing Redis connection", "error", err)
		}
	}
}
