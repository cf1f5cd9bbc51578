// Package config loads the optional stage.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config represents the optional stage.yaml configuration.
type Config struct {
	Log     LogConfig    `yaml:"log"`
	Stage   StageConfig  `yaml:"stage"`
	Plugins []PluginSpec `yaml:"plugins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// StageConfig contains pipeline settings.
type StageConfig struct {
	ExternalKinds []string `yaml:"external_kinds,omitempty"`
}

// PluginSpec names a WASM resolver module and the resource kinds it
// handles.
type PluginSpec struct {
	Path  string   `yaml:"path"`
	Kinds []string `yaml:"kinds,omitempty"`
}

// LoadOptional reads stage.yaml from dir if present. A missing file
// resolves to defaults, not an error.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "stage.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read stage.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stage.yaml: %w", err)
	}

	return &cfg, nil
}

// Logger builds a zap logger from the configured level. An empty
// level yields a nop logger; an unknown level is an error.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.Log.Level == "" {
		return zap.NewNop(), nil
	}

	var level zapcore.Level
	if err := level.Set(c.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
