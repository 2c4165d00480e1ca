// Package config provides configuration loading for the sensorbuf driver.
//
// # Core Components
//
// Config: buffer sizing, simulation rates and overflow policy, logging, and the
// metrics endpoint. Default() returns a complete working configuration.
//
// Loader: loads configuration with layer merging (defaults, then each file in
// order) and SENSORBUF_* environment overrides. Only keys present in a file
// override earlier values, so an explicit zero survives the merge.
//
// # File Formats
//
// Files ending in .json are parsed with encoding/json after a nesting-depth check;
// .yaml and .yml files are parsed with gopkg.in/yaml.v3. Every file is checked
// against the embedded JSON Schema (see Schema) before merging, and the merged
// result is checked by Config.Validate.
//
// # Basic Usage
//
//	loader := config.NewLoader()
//	loader.AddLayer("config/base.yaml")
//	loader.AddLayer("config/bench.json") // Overrides base
//
//	cfg, err := loader.Load()
//	if err != nil {
//		return err
//	}
//
// # Errors
//
// Load returns fatal-class errors. Schema and value problems wrap
// errors.ErrInvalidConfig; a missing file wraps errors.ErrConfigNotFound.
//
// # Security
//
// Files are read through a path check (no traversal outside the working
// directory for relative paths, JSON/YAML extensions only), a 10MB size limit,
// and a regular-file check.
package config
