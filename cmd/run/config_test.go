package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
wasm = "guest.wasm"
module_path = "/app/modules"
data_dir = "/var/lib/app"
attach_ceiling = 16
args = ["main.js", "--verbose"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Wasm != "guest.wasm" {
		t.Errorf("unexpected wasm: %q", cfg.Wasm)
	}
	if cfg.ModulePath != "/app/modules" {
		t.Errorf("unexpected module path: %q", cfg.ModulePath)
	}
	if cfg.DataDir != "/var/lib/app" {
		t.Errorf("unexpected data dir: %q", cfg.DataDir)
	}
	if cfg.Ceiling != 16 {
		t.Errorf("unexpected ceiling: %d", cfg.Ceiling)
	}
	if len(cfg.Args) != 2 || cfg.Args[0] != "main.js" {
		t.Errorf("unexpected args: %v", cfg.Args)
	}

	// Keys absent from the file keep defaults.
	if cfg.Tag != "engine" {
		t.Errorf("expected default tag, got %q", cfg.Tag)
	}
	if !cfg.Redirect {
		t.Error("expected redirect enabled by default")
	}
}

func TestLoadConfigRedirectOff(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
wasm = "guest.wasm"
redirect_output = false
redirect_tag = "NODEJS"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Redirect {
		t.Error("expected redirect disabled")
	}
	if cfg.Tag != "NODEJS" {
		t.Errorf("unexpected tag: %q", cfg.Tag)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
