// Package aliasing provides sensor ID alias resolution for ingestion.
//
// Field devices sometimes report a hardware-assigned sensor ID that differs
// from the canonical ID the rest of the system uses (for example after a
// sensor is replaced in place). This package loads an optional alias map and
// rewrites device-reported IDs to canonical IDs before readings are stored.
package aliasing

import (
	"errors"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/terralog-io/terralog/internal/config"
)

// Config holds sensor alias configuration loaded from .terralog.yaml.
type Config struct {
	// SensorAliases maps device-reported sensor IDs to canonical sensor IDs.
	//nolint:tagliatelle // snake_case is intentional for YAML config files
	SensorAliases map[int64]int64 `yaml:"sensor_aliases"`
}

// DefaultConfigPath is the default location for the terralog configuration
// file. Uses hidden file format following common tool conventions.
const DefaultConfigPath = ".terralog.yaml"

// ConfigPathEnvVar is the environment variable name for a custom config path.
const ConfigPathEnvVar = "TERRALOG_CONFIG_PATH"

// LoadConfig loads alias configuration from a YAML file at the given path.
//
// Behavior:
//   - Returns empty config (not error) if the file doesn't exist - aliases are optional
//   - Returns empty config + logs warning if the YAML is invalid (graceful degradation)
//   - Returns populated config on success
//
// The service must be able to start without an alias file, so every failure
// mode degrades to passthrough resolution.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		SensorAliases: make(map[int64]int64),
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is from trusted config source
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Config file not found, continuing without sensor aliases",
				slog.String("path", path))

			return cfg, nil
		}

		slog.Warn("Failed to read config file, continuing without sensor aliases",
			slog.String("path", path),
			slog.String("error", err.Error()))

		return cfg, nil
	}

	// Empty file is valid - just no aliases
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Warn("Failed to parse config file, continuing without sensor aliases",
			slog.String("path", path),
			slog.String("error", err.Error()))

		return &Config{SensorAliases: make(map[int64]int64)}, nil
	}

	if cfg.SensorAliases == nil {
		cfg.SensorAliases = make(map[int64]int64)
	}

	return cfg, nil
}

// LoadConfigFromEnv loads config from the path in TERRALOG_CONFIG_PATH,
// falling back to ".terralog.yaml" in the current directory.
func LoadConfigFromEnv() (*Config, error) {
	path := config.GetEnvStr(ConfigPathEnvVar, DefaultConfigPath)

	return LoadConfig(path)
}
