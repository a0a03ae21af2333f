package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WANIKANI_API_KEY", " secret ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("APIKey = %q, want trimmed secret", cfg.APIKey)
	}
	if cfg.PollInterval != 900*time.Second {
		t.Fatalf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.StorageType != "bbolt" || cfg.UnlockLimit != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Redacted().APIKey != "REDACTED" {
		t.Fatalf("Redacted leaked key")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WANIKANI_API_KEY", "k")
	t.Setenv("WANIKANI_POLL_INTERVAL", "60")
	t.Setenv("WANIKANI_STORAGE_TYPE", "none")
	t.Setenv("WANIKANI_URL_TEMPLATE", "http://localhost/{resource}/{argument}")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("PollInterval = %v, want 1m", cfg.PollInterval)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
	if cfg.URLTemplate != "http://localhost/{resource}/{argument}" {
		t.Fatalf("URLTemplate = %q", cfg.URLTemplate)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WANIKANI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when api key is missing")
	}
}

func TestLoadRejectsInvalidIntervals(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WANIKANI_API_KEY", "k")
	t.Setenv("WANIKANI_POLL_INTERVAL", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero poll interval")
	}
}

func TestLoadWithPrefersExplicitValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WANIKANI_API_KEY", "k")
	t.Setenv("WANIKANI_LOG_LEVEL", "warn")

	v := viper.New()
	v.Set("log_level", "debug")
	cfg, err := LoadWith(v)
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}
