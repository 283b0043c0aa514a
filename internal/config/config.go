// Package config loads project settings from trb.yaml. Every field has a
// default so a project with no config file still builds.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the project root.
const FileName = "trb.yaml"

// Config is the project-level build configuration.
type Config struct {
	// SrcDir is the directory scanned for .trb sources.
	SrcDir string `yaml:"src_dir"`
	// OutDir receives the generated .rb files, mirroring SrcDir's layout.
	OutDir string `yaml:"out_dir"`

	// EmitRBS also writes a .rbs signature file per source file.
	EmitRBS bool `yaml:"emit_rbs"`
	// EmitDecls also writes a .trbd declaration file per source file.
	EmitDecls bool `yaml:"emit_decls"`

	// Strict promotes checker warnings to errors.
	Strict bool `yaml:"strict"`
	// WarnUnknownTypes reports annotations naming unknown types.
	WarnUnknownTypes bool `yaml:"warn_unknown_types"`

	// CachePath is the build cache database. Empty disables caching.
	CachePath string `yaml:"cache_path"`
}

// Default returns the configuration used when no trb.yaml exists.
func Default() *Config {
	return &Config{
		SrcDir:           "src",
		OutDir:           "build",
		EmitRBS:          false,
		EmitDecls:        false,
		Strict:           false,
		WarnUnknownTypes: true,
		CachePath:        filepath.Join(".trb", "cache.db"),
	}
}

// Load reads the config file at path, applying defaults for absent fields.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.SrcDir == "" {
		cfg.SrcDir = "src"
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "build"
	}
	return cfg, nil
}

// LoadDir loads dir/trb.yaml.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}
