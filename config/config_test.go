package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	var cfg Config
	err := Load(&cfg, WithConfigFile("does-not-exist.yml"), WithEnvFile("does-not-exist.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultSplit != "train" {
		t.Errorf("DefaultSplit = %q, want train", cfg.DefaultSplit)
	}
	if cfg.ShuffleBuffer != 1000 {
		t.Errorf("ShuffleBuffer = %d, want 1000", cfg.ShuffleBuffer)
	}
	if cfg.Seed != -1 {
		t.Errorf("Seed = %d, want -1", cfg.Seed)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datastream.yml", `
default_split: test
shuffle_buffer: 256
streaming: true
logging:
  level: debug
  format: json
`)

	var cfg Config
	if err := Load(&cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultSplit != "test" {
		t.Errorf("DefaultSplit = %q, want test", cfg.DefaultSplit)
	}
	if cfg.ShuffleBuffer != 256 {
		t.Errorf("ShuffleBuffer = %d, want 256", cfg.ShuffleBuffer)
	}
	if !cfg.Streaming {
		t.Error("Streaming = false, want true")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datastream.yml", "shuffle_buffer: 256\n")
	t.Setenv("DATASTREAM_SHUFFLE_BUFFER", "64")

	var cfg Config
	if err := Load(&cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ShuffleBuffer != 64 {
		t.Errorf("ShuffleBuffer = %d, want env override 64", cfg.ShuffleBuffer)
	}
}

func TestEnvFileExtendsEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "DATASTREAM_DEFAULT_SPLIT=validation\n")
	t.Setenv("DATASTREAM_DEFAULT_SPLIT", "")
	os.Unsetenv("DATASTREAM_DEFAULT_SPLIT")

	var cfg Config
	err := Load(&cfg, WithConfigFile("does-not-exist.yml"), WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultSplit != "validation" {
		t.Errorf("DefaultSplit = %q, want validation", cfg.DefaultSplit)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datastream.yml", "logging:\n  level: shouting\n")

	var cfg Config
	if err := Load(&cfg, WithConfigFile(path)); err == nil {
		t.Fatal("Load accepted an invalid logging level")
	}
}

func TestResolveFilesPrefersExplicitPaths(t *testing.T) {
	r := &Resolver{FileSystem: RealFileSystem{}}
	files := r.ResolveFiles(LoaderConfig{ConfigFile: "x.yml", EnvFile: "x.env"})
	if files.ConfigFile != "x.yml" || files.EnvFile != "x.env" {
		t.Errorf("ResolveFiles = %+v, want explicit paths", files)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{ShuffleBuffer: 0}
	cfg.Logging.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted a zero shuffle buffer")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate after defaults: %v", err)
	}
}
