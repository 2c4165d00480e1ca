package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_JSON(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&out, "info", "json")

	logger.Debug("hidden")
	logger.Info("visible", "capacity", 5)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "visible", record["msg"])
	assert.Equal(t, appName, record["service"])
	assert.Equal(t, Version, record["version"])
	assert.EqualValues(t, 5, record["capacity"])
	assert.NotContains(t, record, "source")

	runID, ok := record["run_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(runID)
	assert.NoError(t, err)
}

func TestSetupLogger_TextDebug(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&out, "DEBUG", "text")

	logger.Debug("tick")
	assert.Contains(t, out.String(), "level=DEBUG")
	assert.Contains(t, out.String(), "msg=tick")
	assert.Contains(t, out.String(), "source=")
}

func TestSetupLogger_RunIDPerLogger(t *testing.T) {
	var a, b bytes.Buffer
	setupLogger(&a, "info", "json").Info("x")
	setupLogger(&b, "info", "json").Info("x")

	var ra, rb map[string]any
	require.NoError(t, json.Unmarshal(a.Bytes(), &ra))
	require.NoError(t, json.Unmarshal(b.Bytes(), &rb))
	assert.NotEqual(t, ra["run_id"], rb["run_id"])
}

func TestSetupLogger_UnknownLevel(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&out, "chatty", "json")

	logger.Debug("hidden")
	assert.Empty(t, out.String())
	logger.Warn("shown")
	assert.Contains(t, out.String(), "shown")
}
