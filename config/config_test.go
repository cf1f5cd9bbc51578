package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stage.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write stage.yaml: %v", err)
	}
	return dir
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Log.Level != "" || len(cfg.Plugins) != 0 {
		t.Fatalf("missing file did not resolve to defaults: %+v", cfg)
	}
}

func TestLoadOptionalParsesFields(t *testing.T) {
	dir := writeConfig(t, `
log:
  level: debug
stage:
  external_kinds: [ExternalWidget, Minimap]
plugins:
  - path: resolver.wasm
    kinds: [Minimap]
`)

	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	if len(cfg.Stage.ExternalKinds) != 2 || cfg.Stage.ExternalKinds[0] != "ExternalWidget" {
		t.Fatalf("external kinds = %v", cfg.Stage.ExternalKinds)
	}
	if len(cfg.Plugins) != 1 || cfg.Plugins[0].Path != "resolver.wasm" {
		t.Fatalf("plugins = %+v", cfg.Plugins)
	}
}

func TestLoadOptionalRejectsBadYAML(t *testing.T) {
	dir := writeConfig(t, "log: [not: a: mapping")
	if _, err := LoadOptional(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoggerLevels(t *testing.T) {
	cfg := &Config{}
	log, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger with empty level: %v", err)
	}
	if log == nil {
		t.Fatal("nil logger")
	}

	cfg.Log.Level = "warn"
	if _, err := cfg.Logger(); err != nil {
		t.Fatalf("Logger with warn: %v", err)
	}

	cfg.Log.Level = "shouting"
	if _, err := cfg.Logger(); err == nil {
		t.Fatal("invalid level accepted")
	}
}
