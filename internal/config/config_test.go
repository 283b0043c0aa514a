package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/type-ruby/trb/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	if cfg.SrcDir != "src" || cfg.OutDir != "build" {
		t.Errorf("default layout = %s -> %s", cfg.SrcDir, cfg.OutDir)
	}
	if cfg.Strict || cfg.EmitRBS || cfg.EmitDecls {
		t.Errorf("opt-in features should default off: %+v", cfg)
	}
	if !cfg.WarnUnknownTypes {
		t.Errorf("unknown-type warnings should default on")
	}
	if cfg.CachePath == "" {
		t.Errorf("caching should be enabled by default")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), config.FileName))
	if err != nil {
		t.Fatalf("a missing config file is not an error: %v", err)
	}
	if cfg.SrcDir != "src" || !cfg.WarnUnknownTypes {
		t.Errorf("missing file should yield the defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	data := `src_dir: lib
out_dir: dist
emit_rbs: true
strict: true
cache_path: tmp/cache.db
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SrcDir != "lib" || cfg.OutDir != "dist" {
		t.Errorf("layout = %s -> %s", cfg.SrcDir, cfg.OutDir)
	}
	if !cfg.EmitRBS || !cfg.Strict {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.CachePath != "tmp/cache.db" {
		t.Errorf("cache_path = %s", cfg.CachePath)
	}
	// Fields absent from the file keep their defaults.
	if !cfg.WarnUnknownTypes {
		t.Errorf("omitted warn_unknown_types should keep its default")
	}
	if cfg.EmitDecls {
		t.Errorf("omitted emit_decls should keep its default")
	}
}

func TestLoadBackfillsEmptyDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("src_dir: \"\"\nout_dir: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SrcDir != "src" || cfg.OutDir != "build" {
		t.Errorf("empty directories should fall back to defaults: %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("src_dir: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Errorf("malformed yaml should be reported")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("src_dir: app\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SrcDir != "app" {
		t.Errorf("src_dir = %s", cfg.SrcDir)
	}
}
