package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	cfg, err := LoadConfig(filepath.Join(tmpDir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("loading missing config: %v", err)
	}

	if cfg.DefaultLimit != 20 {
		t.Errorf("DefaultLimit: expected 20, got %d", cfg.DefaultLimit)
	}
	if cfg.MaxLimit != 100 {
		t.Errorf("MaxLimit: expected 100, got %d", cfg.MaxLimit)
	}
	if cfg.SubsearchTimeout.Duration != 5*time.Second {
		t.Errorf("SubsearchTimeout: expected 5s, got %v", cfg.SubsearchTimeout.Duration)
	}
	if cfg.PartialResults {
		t.Error("PartialResults should default to false")
	}
	if cfg.DBPath == "" {
		t.Error("DBPath should be defaulted")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
db_path = "/tmp/catalog.db"
listen_addr = "127.0.0.1:9090"
default_limit = 10
subsearch_timeout = "250ms"
suppressed_ips = ["10.0.0.5"]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.DBPath != "/tmp/catalog.db" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if cfg.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("ListenAddr: got %q", cfg.ListenAddr)
	}
	if cfg.DefaultLimit != 10 {
		t.Errorf("DefaultLimit: got %d", cfg.DefaultLimit)
	}
	if cfg.SubsearchTimeout.Duration != 250*time.Millisecond {
		t.Errorf("SubsearchTimeout: got %v", cfg.SubsearchTimeout.Duration)
	}
	if len(cfg.SuppressedIPs) != 1 || cfg.SuppressedIPs[0] != "10.0.0.5" {
		t.Errorf("SuppressedIPs: got %v", cfg.SuppressedIPs)
	}
}

func TestSuppressedCallerIPs(t *testing.T) {
	t.Setenv(EnvMonitorIP, "192.168.1.10")
	t.Setenv(EnvHealthCheckIP, " 192.168.1.11 ")

	cfg := &Config{SuppressedIPs: []string{"10.0.0.5", ""}}
	ips := cfg.SuppressedCallerIPs()

	for _, want := range []string{"10.0.0.5", "192.168.1.10", "192.168.1.11"} {
		if !ips[want] {
			t.Errorf("expected %s to be suppressed", want)
		}
	}
	if len(ips) != 3 {
		t.Errorf("expected 3 suppressed addresses, got %d", len(ips))
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "searchd", "config.toml")

	cfg, err := GetDefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		t.Fatalf("saving template: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("loading written template: %v", err)
	}
	if loaded.DBPath != cfg.DBPath {
		t.Errorf("template db_path not substituted: got %q, want %q", loaded.DBPath, cfg.DBPath)
	}
}
