// Package project loads boundcheck.toml, the project manifest naming which
// module files a "boundcheck check" run analyzes.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the project manifest's filename.
const ManifestFile = "boundcheck.toml"

// DefaultMaxDiagnostics matches internal/diag's own sense of "generous but
// bounded" — large enough that no real module run hits it by accident.
const DefaultMaxDiagnostics = 500

// PackageConfig is the manifest's [package] section.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CheckConfig is the manifest's [check] section: which module files a run
// covers and how the pipeline should be sized.
type CheckConfig struct {
	Paths          []string `toml:"paths"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	Cache          bool     `toml:"cache"`
}

// Config is boundcheck.toml's full decoded shape.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
}

// Manifest pairs a decoded Config with the filesystem location it came
// from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// FindManifest walks up from startDir looking for boundcheck.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFile)
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

// LoadManifest finds and decodes the manifest reachable from startDir,
// defaulting MaxDiagnostics when the manifest leaves it unset (zero).
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("check") {
		return Config{}, fmt.Errorf("%s: missing [check]", path)
	}
	if !meta.IsDefined("check", "paths") || len(cfg.Check.Paths) == 0 {
		return Config{}, fmt.Errorf("%s: missing [check].paths", path)
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return cfg, nil
}
