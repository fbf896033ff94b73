package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// runConfig holds the host process settings.
type runConfig struct {
	Wasm       string
	ModulePath string
	DataDir    string
	Tag        string
	Args       []string
	Ceiling    int
	Redirect   bool
}

func defaultConfig() runConfig {
	return runConfig{
		Tag:      "engine",
		Redirect: true,
	}
}

// run config.toml key mapping to host settings.
type fileConfig struct {
	Wasm       string   `toml:"wasm"`
	ModulePath string   `toml:"module_path"`
	DataDir    string   `toml:"data_dir"`
	Tag        string   `toml:"redirect_tag"`
	Args       []string `toml:"args"`
	Ceiling    int      `toml:"attach_ceiling"`
	Redirect   bool     `toml:"redirect_output"`
}

// loadConfig overlays a TOML file onto the defaults. Keys absent from the
// file keep their default values.
func loadConfig(path string) (runConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load run config: %w", err)
	}

	if meta.IsDefined("wasm") {
		cfg.Wasm = strings.TrimSpace(raw.Wasm)
	}
	if meta.IsDefined("module_path") {
		cfg.ModulePath = strings.TrimSpace(raw.ModulePath)
	}
	if meta.IsDefined("data_dir") {
		cfg.DataDir = strings.TrimSpace(raw.DataDir)
	}
	if meta.IsDefined("redirect_tag") {
		cfg.Tag = strings.TrimSpace(raw.Tag)
	}
	if meta.IsDefined("args") {
		cfg.Args = raw.Args
	}
	if meta.IsDefined("attach_ceiling") {
		cfg.Ceiling = raw.Ceiling
	}
	if meta.IsDefined("redirect_output") {
		cfg.Redirect = raw.Redirect
	}

	return cfg, nil
}
