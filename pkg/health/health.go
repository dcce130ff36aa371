package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/SymenMulders/cputemp2rgb/pkg/mqtt"
	"github.com/SymenMulders/cputemp2rgb/pkg/openrgb"
)

// Checker provides health check functionality for the daemon
type Checker struct {
	controller openrgb.Controller
	mqtt       mqtt.Client
	logger     *slog.Logger
}

// NewChecker creates a new health checker. The MQTT client may be
// nil when telemetry is disabled.
func NewChecker(controller openrgb.Controller, mqttClient mqtt.Client, logger *slog.Logger) *Checker {
	return &Checker{
		controller: controller,
		mqtt:       mqttClient,
		logger:     logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// Services represents the status of external dependencies
type Services struct {
	OpenRGB string `json:"openrgb"`
	MQTT    string `json:"mqtt,omitempty"`
}

// HandlerFunc returns an HTTP handler function for health checks.
// Returns 200 if the process is alive without checking dependencies.
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}

// DetailedHandlerFunc returns a handler that reports dependency
// connectivity as well.
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{}

		if h.controller != nil && h.controller.IsConnected() {
			services.OpenRGB = "connected"
		} else {
			services.OpenRGB = "disconnected"
		}

		if h.mqtt != nil {
			if h.mqtt.IsConnected() {
				services.MQTT = "connected"
			} else {
				services.MQTT = "disconnected"
			}
		}

		status := "healthy"
		statusCode := http.StatusOK
		if services.OpenRGB == "disconnected" {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}
