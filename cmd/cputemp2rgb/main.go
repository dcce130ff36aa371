package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sevlyar/go-daemon"

	"github.com/SymenMulders/cputemp2rgb/internal/lightsync"
	"github.com/SymenMulders/cputemp2rgb/internal/thermal"
	"github.com/SymenMulders/cputemp2rgb/pkg/config"
	"github.com/SymenMulders/cputemp2rgb/pkg/health"
	"github.com/SymenMulders/cputemp2rgb/pkg/mqtt"
	"github.com/SymenMulders/cputemp2rgb/pkg/openrgb"
	"github.com/SymenMulders/cputemp2rgb/pkg/redis"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Background the process and write the PID file. The parent
	// returns immediately; everything below the fork runs in the
	// daemon child. Stop with: kill $(cat /tmp/cputemp2rgb.pid)
	var dctx *daemon.Context
	if !cfg.Foreground {
		dctx = &daemon.Context{
			PidFileName: cfg.PIDFile,
			PidFilePerm: 0644,
			LogFileName: cfg.LogFile,
			LogFilePerm: 0640,
			WorkDir:     "/",
			Umask:       027,
		}

		child, err := dctx.Reborn()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to daemonize: %v\n", err)
			os.Exit(1)
		}
		if child != nil {
			// Parent process: the daemon is running.
			return
		}
	}

	code := run(cfg)
	if dctx != nil {
		if err := dctx.Release(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to release PID file: %v\n", err)
		}
	}
	os.Exit(code)
}

func run(cfg *config.Config) int {
	// Set up structured logging
	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting cputemp2rgb",
		"service_name", cfg.ServiceName,
		"openrgb_server", cfg.OpenRGBAddress(),
		"update_interval_sec", cfg.UpdateIntervalSec,
		"colorshift", cfg.Colorshift,
		"log_level", cfg.LogLevel)

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling: the daemon runs until killed
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize the lighting controller and temperature sampler
	controller := openrgb.NewController(cfg, logger)
	sampler := thermal.NewSampler()

	// Optional telemetry sinks
	var mqttClient mqtt.Client
	var redisClient redis.Client
	var telemetry *lightsync.Telemetry

	if cfg.MQTTEnabled || cfg.RedisEnabled {
		host, err := os.Hostname()
		if err != nil {
			host = cfg.ServiceName
		}
		if cfg.MQTTEnabled {
			mqttClient = mqtt.NewClient(cfg, logger)
		}
		if cfg.RedisEnabled {
			redisClient = redis.NewClient(cfg, logger)
		}
		telemetry = lightsync.NewTelemetry(mqttClient, redisClient, host, cfg, logger)
	}

	// Create the lightsync agent
	agent := lightsync.NewAgent(sampler, controller, telemetry, cfg, logger)

	// Start health check server
	healthChecker := health.NewChecker(controller, mqttClient, logger)
	httpServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	// Start agent in a goroutine
	agentErr := make(chan error, 1)
	go func() {
		if err := agent.Start(ctx); err != nil {
			agentErr <- err
		}
	}()

	// Wait for shutdown signal or agent error
	exitCode := 0
	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-agentErr:
		logger.Error("Agent failed", "error", err)
		exitCode = 1
	}

	// Graceful shutdown
	logger.Info("Initiating graceful shutdown")
	cancel()

	if err := agent.Stop(); err != nil {
		logger.Error("Error stopping agent", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	logger.Info("cputemp2rgb shutdown complete")
	return exitCode
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())
	mux.HandleFunc("/health/detailed", checker.DetailedHandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
