package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/sensorbuf/errors"
)

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new configuration loader with validation enabled
func NewLoader() *Loader {
	return &Loader{
		layers:     []string{},
		validation: true,
		envPrefix:  "SENSORBUF",
	}
}

// AddLayer adds a configuration file layer. Later layers override earlier ones.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables Config.Validate after loading.
// Schema validation of each file always runs.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file over the defaults
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load starts from Default, merges every layer, applies environment overrides and validates.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		rawConfig, err := l.loadRaw(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", fmt.Sprintf("load %s", path))
		}

		validationErrors, err := ValidateDocument(rawConfig)
		if err != nil {
			return nil, err
		}
		if len(validationErrors) > 0 {
			return nil, errors.WrapFatal(schemaError(path, validationErrors), "Loader", "Load", "schema validation")
		}

		cfg, err = mergeFromMap(cfg, rawConfig)
		if err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", fmt.Sprintf("merge %s", path))
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, errors.WrapFatal(err, "Loader", "Load", "environment overrides")
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", "validation")
		}
	}

	return cfg, nil
}

// loadRaw reads a JSON or YAML file into a generic map, chosen by extension
func (l *Loader) loadRaw(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errors.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var rawConfig map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rawConfig); err != nil {
			return nil, fmt.Errorf("%w: parse YAML: %v", errors.ErrInvalidConfig, err)
		}
	default:
		// Validate JSON depth to prevent DoS
		if err := validateJSONDepth(data); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON structure: %v", errors.ErrInvalidConfig, err)
		}
		if err := json.Unmarshal(data, &rawConfig); err != nil {
			return nil, fmt.Errorf("%w: parse JSON: %v", errors.ErrInvalidConfig, err)
		}
	}

	if rawConfig == nil {
		rawConfig = map[string]any{}
	}
	return rawConfig, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields present in the map
func mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, err
	}

	mergedJSON, err := json.Marshal(deepMergeMaps(baseMap, override))
	if err != nil {
		return nil, err
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}

		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}

		result[k] = v
	}

	return result
}

// applyEnvOverrides applies environment variable overrides for buffer and simulation settings
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"_BUFFER_CAPACITY", &cfg.Buffer.Capacity},
		{"_SIMULATION_TICKS", &cfg.Simulation.Ticks},
		{"_SIMULATION_PRODUCE_PER_TICK", &cfg.Simulation.ProducePerTick},
		{"_SIMULATION_DRAIN_PER_TICK", &cfg.Simulation.DrainPerTick},
	}
	for _, o := range ints {
		key := l.envPrefix + o.key
		val := os.Getenv(key)
		if err := validateEnvVar(key, val); err != nil {
			return err
		}
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", errors.ErrInvalidConfig, key, val)
		}
		*o.dst = n
	}

	key := l.envPrefix + "_SIMULATION_POLICY"
	val := os.Getenv(key)
	if err := validateEnvVar(key, val); err != nil {
		return err
	}
	if val != "" {
		cfg.Simulation.Policy = val
	}

	return nil
}
