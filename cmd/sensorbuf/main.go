// Package main implements the sensorbuf driver. It runs either the scripted
// buffer demonstration or a deterministic producer/consumer simulation, and can
// expose the buffer metrics over HTTP while doing so.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/c360/sensorbuf/config"
	"github.com/c360/sensorbuf/health"
	"github.com/c360/sensorbuf/metric"
	"github.com/c360/sensorbuf/pkg/sensor"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "sensorbuf"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run application with proper error handling
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cliCfg, err := parseFlags(args, stderr)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printHelp(stdout)
		return nil
	}

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		_, _ = fmt.Fprintln(stdout, cfg.String())
		return nil
	}

	logger := setupLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("Starting sensorbuf",
		"version", Version,
		"build_time", BuildTime,
		"mode", cliCfg.Mode,
		"config_path", cliCfg.ConfigPath)

	registry := metric.NewMetricsRegistry()
	monitor := health.NewMonitor()

	var serveErr chan error
	if cfg.Metrics.Enabled {
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		server.SetHealthMonitor(monitor)
		if err := server.Listen(); err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		serveErr = make(chan error, 1)
		go func() { serveErr <- server.Start() }()
		defer func() {
			if err := server.Stop(); err != nil {
				logger.Warn("Metrics server shutdown failed", "error", err)
			}
		}()
		logger.Info("Metrics server listening", "address", server.Address(), "path", cfg.Metrics.Path)
	}

	buf, component, err := openBuffer(cliCfg.Mode, cfg, logger, registry)
	if err != nil {
		return fmt.Errorf("%s: create buffer: %w", cliCfg.Mode, err)
	}
	// Closing unregisters the buffer collectors, so it happens at shutdown
	defer func() {
		if err := buf.Close(); err != nil {
			logger.Warn("Buffer close failed", "error", err)
		}
		monitor.Observe(component, buf)
	}()

	core := registry.CoreMetrics()
	core.RecordRunStatus(cliCfg.Mode, metric.StatusRunning)

	if err := runMode(ctx, cliCfg.Mode, buf, cfg, logger, registry, monitor); err != nil {
		core.RecordRunStatus(cliCfg.Mode, metric.StatusFailed)
		return err
	}
	core.RecordRunStatus(cliCfg.Mode, metric.StatusStopped)
	monitor.Observe(component, buf)

	if serveErr != nil {
		logger.Info("Run complete, serving metrics until interrupted")
		select {
		case <-ctx.Done():
			logger.Info("Received shutdown signal")
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
		}
	}

	logger.Info("sensorbuf shutdown complete")
	return nil
}

// openBuffer creates the buffer a mode runs against and the component name its
// metrics and health are reported under.
func openBuffer(
	mode string,
	cfg *config.Config,
	logger *slog.Logger,
	registry *metric.MetricsRegistry,
) (*sensor.Buffer, string, error) {
	switch mode {
	case modeDemo:
		buf, err := newDemoBuffer(logger, registry)
		return buf, demoComponent, err
	case modeSimulate:
		buf, err := newSimulationBuffer(cfg, logger, registry)
		return buf, simulationComponent, err
	default:
		return nil, "", fmt.Errorf("unknown mode: %s", mode)
	}
}

func runMode(
	ctx context.Context,
	mode string,
	buf *sensor.Buffer,
	cfg *config.Config,
	logger *slog.Logger,
	registry *metric.MetricsRegistry,
	monitor *health.Monitor,
) error {
	switch mode {
	case modeDemo:
		if err := runDemo(logger, buf); err != nil {
			return fmt.Errorf("demo: %w", err)
		}
		logger.Info("Demo completed")
		return nil
	case modeSimulate:
		if _, err := runSimulation(ctx, buf, cfg, logger, registry, monitor); err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

// loadConfig layers the optional config file over defaults, then applies flags
func loadConfig(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	if cliCfg.ConfigPath != "" {
		loader.AddLayer(cliCfg.ConfigPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyFlags(cfg, cliCfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
