package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultServer != "https://httpbin.org" {
		t.Fatalf("DefaultServer = %q", cfg.DefaultServer)
	}
	if cfg.DefaultTimeout != 15 {
		t.Fatalf("DefaultTimeout = %d", cfg.DefaultTimeout)
	}
	if cfg.OutputFormat != OutputConsole {
		t.Fatalf("OutputFormat = %q", cfg.OutputFormat)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
	if cfg.StorageTTL != 7*24*time.Hour {
		t.Fatalf("StorageTTL = %s", cfg.StorageTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_SERVER", " http://echo.local/ ")
	t.Setenv("DEFAULT_TIMEOUT", "3")
	t.Setenv("OUTPUT_FORMAT", "JSON")
	t.Setenv("STORAGE_TYPE", "bbolt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultServer != "http://echo.local" {
		t.Fatalf("DefaultServer = %q", cfg.DefaultServer)
	}
	if cfg.DefaultTimeout != 3 || cfg.OutputFormat != OutputJSON || cfg.StorageType != "bbolt" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"DEFAULT_TIMEOUT":     "0",
		"OUTPUT_FORMAT":       "xml",
		"STORAGE_TTL_SECONDS": "-1",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
