// Package lightsync drives the sample -> map -> push loop that keeps
// motherboard lighting in step with CPU temperature.
package lightsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SymenMulders/cputemp2rgb/internal/colormap"
	"github.com/SymenMulders/cputemp2rgb/pkg/config"
	"github.com/SymenMulders/cputemp2rgb/pkg/openrgb"
)

// TemperatureSource supplies the current hottest CPU temperature.
type TemperatureSource interface {
	CPUTemperature(ctx context.Context) (float64, error)
}

// Agent owns the periodic update loop. Errors from the sensor
// interface or the lighting controller are fatal and end the loop;
// the process has no partial-failure mode to fall back to.
type Agent struct {
	source     TemperatureSource
	controller openrgb.Controller
	telemetry  *Telemetry
	cfg        *config.Config
	logger     *slog.Logger
}

// NewAgent creates a new lightsync agent. telemetry may be nil when
// no telemetry sink is configured.
func NewAgent(source TemperatureSource, controller openrgb.Controller, telemetry *Telemetry, cfg *config.Config, logger *slog.Logger) *Agent {
	return &Agent{
		source:     source,
		controller: controller,
		telemetry:  telemetry,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start connects to the lighting controller and runs the update loop
// until ctx is cancelled or a collaborator fails.
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting lightsync agent",
		"service_name", a.cfg.ServiceName,
		"openrgb_server", a.cfg.OpenRGBAddress(),
		"update_interval_sec", a.cfg.UpdateIntervalSec,
		"colorshift", a.cfg.Colorshift)

	if err := a.controller.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to lighting controller: %w", err)
	}

	// Turn the lights off first so the device is in a known state.
	if err := a.controller.Clear(); err != nil {
		return fmt.Errorf("failed to clear lighting device: %w", err)
	}

	if a.telemetry != nil {
		if err := a.telemetry.Start(ctx); err != nil {
			return fmt.Errorf("failed to start telemetry: %w", err)
		}
	}

	a.logger.Info("Lightsync agent started and ready")

	// First update immediately, then on every tick.
	if err := a.update(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(a.cfg.UpdateIntervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Lightsync agent stopping")
			return nil
		case <-ticker.C:
			if err := a.update(ctx); err != nil {
				return err
			}
		}
	}
}

// update performs one sample -> map -> push cycle.
func (a *Agent) update(ctx context.Context) error {
	temp, err := a.source.CPUTemperature(ctx)
	if err != nil {
		return fmt.Errorf("temperature sampling failed: %w", err)
	}

	color := colormap.Map(temp, a.cfg.Colorshift)

	if err := a.controller.SetColor(color.Red, color.Green, color.Blue); err != nil {
		return fmt.Errorf("failed to push color to lighting device: %w", err)
	}

	a.logger.Debug("Updated lighting",
		"temperature_c", temp,
		"red", color.Red,
		"green", color.Green,
		"blue", color.Blue)

	// Telemetry is best-effort and never feeds back into the loop.
	if a.telemetry != nil {
		a.telemetry.Record(ctx, temp, color)
	}

	return nil
}

// Stop gracefully stops the agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping lightsync agent")

	if a.telemetry != nil {
		a.telemetry.Close()
	}

	if err := a.controller.Close(); err != nil {
		a.logger.Error("Error closing lighting controller", "error", err)
		return err
	}

	a.logger.Info("Lightsync agent stopped")
	return nil
}
