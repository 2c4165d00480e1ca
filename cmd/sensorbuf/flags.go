package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/c360/sensorbuf/config"
)

// Driver modes
const (
	modeDemo     = "demo"
	modeSimulate = "simulate"
)

// CLIConfig holds command-line configuration. Zero values (empty strings, zero
// capacity, metrics port -1) leave the loaded configuration untouched.
type CLIConfig struct {
	ConfigPath  string
	Mode        string
	Capacity    int
	LogLevel    string
	LogFormat   string
	MetricsPort int
	ShowVersion bool
	ShowHelp    bool
	Validate    bool
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := newFlagSet(cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(cfg *CLIConfig, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("SENSORBUF_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: SENSORBUF_CONFIG)")

	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("SENSORBUF_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: SENSORBUF_CONFIG)")

	fs.StringVar(&cfg.Mode, "mode",
		getEnv("SENSORBUF_MODE", modeDemo),
		"Run mode: demo, simulate (env: SENSORBUF_MODE)")

	fs.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("SENSORBUF_CAPACITY", 0),
		"Buffer capacity for simulate mode, 0 to use the config (env: SENSORBUF_CAPACITY)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SENSORBUF_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: SENSORBUF_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SENSORBUF_LOG_FORMAT", ""),
		"Log format: json, text (env: SENSORBUF_LOG_FORMAT)")

	fs.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("SENSORBUF_METRICS_PORT", -1),
		"Metrics server port, 0 to disable, -1 to use the config (env: SENSORBUF_METRICS_PORT)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration, print it and exit")

	fs.Usage = func() {
		printDetailedHelp(fs, stderr)
	}

	return fs
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if !contains([]string{modeDemo, modeSimulate}, cfg.Mode) {
		return fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	if cfg.LogLevel != "" && !contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "" && !contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.Capacity < 0 {
		return fmt.Errorf("invalid capacity: %d", cfg.Capacity)
	}

	if cfg.MetricsPort < -1 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	return nil
}

// applyFlags overrides loaded configuration with explicitly set flags
func applyFlags(cfg *config.Config, cli *CLIConfig) {
	if cli.Capacity > 0 {
		cfg.Buffer.Capacity = cli.Capacity
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	switch {
	case cli.MetricsPort == 0:
		cfg.Metrics.Enabled = false
	case cli.MetricsPort > 0:
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = cli.MetricsPort
	}
}

// printHelp prints help information
func printHelp(w io.Writer) {
	printDetailedHelp(newFlagSet(&CLIConfig{}, w), w)
}

func printDetailedHelp(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s - fixed-capacity sensor reading buffer

Usage: %s [options]

Options:
`, appName, appName)
	fs.SetOutput(w)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  # Run the scripted buffer demonstration
  %s

  # Run a producer/consumer simulation with debug logging
  %s --mode=simulate --capacity=64 --log-level=debug --log-format=text

  # Serve Prometheus metrics while simulating
  %s --mode=simulate --config=configs/sensorbuf.yaml --metrics-port=9090

  # Validate configuration only
  %s --config=configs/sensorbuf.yaml --validate

Version: %s
Build: %s
`, appName, appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
