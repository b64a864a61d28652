// ABOUTME: Tests for environment configuration loading
// ABOUTME: Verifies safe defaults and override parsing

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Strict {
		t.Error("Strict defaults to true; isolated must be the default")
	}
	if cfg.CollectRawHTML {
		t.Error("CollectRawHTML defaults to true; raw passthrough must be opt-in")
	}
	if cfg.LinkCap != 0 || cfg.MetricsPort != 0 {
		t.Errorf("numeric defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STRICT_MODE", "true")
	t.Setenv("COLLECT_RAW_HTML", "true")
	t.Setenv("LINK_CAP", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.Strict || !cfg.CollectRawHTML || cfg.LinkCap != 100 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("LINK_CAP", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("invalid LINK_CAP accepted")
	}
}
