package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/examix/examix/internal/config"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("BUNDLE_PREFIX", "")
	cfg := config.FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.BundlePrefix != "de" {
		t.Errorf("BundlePrefix = %q", cfg.BundlePrefix)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PARALLELISM", "8")

	cfg := config.FromEnv()
	if cfg.HTTPAddr != ":9999" || cfg.DBDriver != "postgres" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.Parallelism != 8 {
		t.Errorf("Parallelism = %d", cfg.Parallelism)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "examix.yaml")
	if err := os.WriteFile(path, []byte("http_addr: \":7070\"\nbundle_prefix: madethi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EXAMIX_CONFIG", path)
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":7070" || cfg.BundlePrefix != "madethi" {
		t.Errorf("file overlay not applied: %+v", cfg)
	}
	// env values survive where the file is silent
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("EXAMIX_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := config.Load(); err == nil {
		t.Fatal("missing config file accepted")
	}
}
