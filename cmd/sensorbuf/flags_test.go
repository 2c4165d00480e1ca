package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/sensorbuf/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SENSORBUF_CONFIG", "SENSORBUF_MODE", "SENSORBUF_CAPACITY",
		"SENSORBUF_LOG_LEVEL", "SENSORBUF_LOG_FORMAT", "SENSORBUF_METRICS_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ConfigPath)
	assert.Equal(t, modeDemo, cfg.Mode)
	assert.Equal(t, 0, cfg.Capacity)
	assert.Equal(t, -1, cfg.MetricsPort)
	assert.False(t, cfg.Validate)
	assert.NoError(t, validateFlags(cfg))
}

func TestParseFlags_Values(t *testing.T) {
	clearEnv(t)

	cfg, err := parseFlags([]string{
		"-c", "sensorbuf.yaml",
		"-mode", "simulate",
		"-capacity", "64",
		"-log-level", "debug",
		"-log-format", "text",
		"-metrics-port", "9100",
		"-validate",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "sensorbuf.yaml", cfg.ConfigPath)
	assert.Equal(t, modeSimulate, cfg.Mode)
	assert.Equal(t, 64, cfg.Capacity)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.True(t, cfg.Validate)
}

func TestParseFlags_EnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENSORBUF_MODE", "simulate")
	t.Setenv("SENSORBUF_CAPACITY", "32")
	t.Setenv("SENSORBUF_METRICS_PORT", "not-a-port")

	cfg, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, modeSimulate, cfg.Mode)
	assert.Equal(t, 32, cfg.Capacity)
	assert.Equal(t, -1, cfg.MetricsPort, "unparseable env keeps the default")

	cfg, err = parseFlags([]string{"-mode", "demo"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, modeDemo, cfg.Mode, "flags win over env")
}

func TestParseFlags_Unknown(t *testing.T) {
	clearEnv(t)

	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-broker", "localhost"}, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: sensorbuf")
}

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CLIConfig
		wantErr string
	}{
		{"bad mode", CLIConfig{Mode: "replay", MetricsPort: -1}, "invalid mode"},
		{"bad level", CLIConfig{Mode: modeDemo, LogLevel: "trace", MetricsPort: -1}, "invalid log level"},
		{"bad format", CLIConfig{Mode: modeDemo, LogFormat: "xml", MetricsPort: -1}, "invalid log format"},
		{"negative capacity", CLIConfig{Mode: modeDemo, Capacity: -3, MetricsPort: -1}, "invalid capacity"},
		{"port too high", CLIConfig{Mode: modeDemo, MetricsPort: 70000}, "invalid metrics port"},
		{"version skips checks", CLIConfig{Mode: "replay", ShowVersion: true}, ""},
		{"help skips checks", CLIConfig{LogLevel: "trace", ShowHelp: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFlags(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	t.Run("unset flags keep config", func(t *testing.T) {
		cfg := config.Default()
		applyFlags(cfg, &CLIConfig{MetricsPort: -1})
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := config.Default()
		applyFlags(cfg, &CLIConfig{Capacity: 12, LogLevel: "warn", LogFormat: "text", MetricsPort: 9300})
		assert.Equal(t, 12, cfg.Buffer.Capacity)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9300, cfg.Metrics.Port)
	})

	t.Run("port zero disables metrics", func(t *testing.T) {
		cfg := config.Default()
		cfg.Metrics.Enabled = true
		applyFlags(cfg, &CLIConfig{MetricsPort: 0})
		assert.False(t, cfg.Metrics.Enabled)
	})
}

func TestPrintHelp(t *testing.T) {
	var out bytes.Buffer
	printHelp(&out)

	help := out.String()
	assert.Contains(t, help, "-metrics-port")
	assert.Contains(t, help, "--mode=simulate")
	assert.Contains(t, help, Version)
}
