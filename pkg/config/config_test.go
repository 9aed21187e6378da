package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"ENV", "API_ENDPOINT", "FORM_SOURCE", "ADDR", "STORE_DRIVER", "REDIS_SESSION_TTL", "REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(StoreFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != EnvDevelopment || cfg.FormSource != SourceHTTP || cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Store.Driver != StoreFile {
		t.Fatalf("store default: got %q", cfg.Store.Driver)
	}
	if cfg.Redis.SessionTTL != 720*time.Hour || cfg.HTTP.ShutdownGrace != 5*time.Second || cfg.HTTP.RequestTimeout != 0 {
		t.Fatalf("durations: %+v %+v", cfg.Redis, cfg.HTTP)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("redis addr: %q", cfg.Redis.Addr())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_ENDPOINT", "https://api.example.com/")
	t.Setenv("FORM_SOURCE", "file:testdata/form.yaml")
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("SHUTDOWN_GRACE", "nonsense")

	cfg, err := Load(StoreMemory)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIEndpoint != "https://api.example.com" {
		t.Fatalf("endpoint should drop trailing slash: %q", cfg.APIEndpoint)
	}
	if path, ok := cfg.FormFile(); !ok || path != "testdata/form.yaml" {
		t.Fatalf("form file: %q %v", path, ok)
	}
	if cfg.Store.Driver != StoreRedis || cfg.HTTP.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HTTP.ShutdownGrace != 5*time.Second {
		t.Fatalf("bad duration should fall back: %v", cfg.HTTP.ShutdownGrace)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{FormSource: SourceHTTP, Store: StoreConfig{Driver: StoreFile}}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, fragment := range []string{"API_ENDPOINT is required", "STORE_DIR is required"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q missing %q", err.Error(), fragment)
		}
	}

	bad := &Config{FormSource: "ftp", Store: StoreConfig{Driver: "disk"}}
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "unknown STORE_DRIVER") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
