package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pico/internal/lexer"
)

const manifestName = "pico.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Check  checkConfig  `toml:"check"`
	Output outputConfig `toml:"output"`
}

type checkConfig struct {
	Engine         string `toml:"engine"`
	Extension      string `toml:"extension"`
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics *int   `toml:"max_diagnostics"`
	Cache          *bool  `toml:"cache"`
}

type outputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

func findPicoToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest returns ok=false without error when no manifest exists.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findPicoToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("check", "engine") {
		if _, err := lexer.ParseEngine(cfg.Check.Engine); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [check].engine: %w", path, err)
		}
	}
	if meta.IsDefined("check", "extension") && !strings.HasPrefix(cfg.Check.Extension, ".") {
		return projectConfig{}, fmt.Errorf("%s: [check].extension must start with '.'", path)
	}
	if cfg.Check.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if cfg.Check.MaxDiagnostics != nil && *cfg.Check.MaxDiagnostics < 0 {
		return projectConfig{}, fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	if meta.IsDefined("output", "format") {
		if _, err := readFormat(cfg.Output.Format); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [output].format: %w", path, err)
		}
	}
	return cfg, nil
}
