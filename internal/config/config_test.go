package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.HistoryLimit != 1000 {
		t.Errorf("HistoryLimit = %d, want 1000", cfg.HistoryLimit)
	}
	if cfg.RateWindow != time.Minute {
		t.Errorf("RateWindow = %v, want 1m", cfg.RateWindow)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy = true, want false by default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("TTS_ENABLED", "true")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173,https://zahlen.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "3001" || cfg.DatabaseType != "postgres" || cfg.HistoryLimit != 50 || !cfg.TTSEnabled || !cfg.TrustProxy {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero history limit")
	}

	t.Setenv("HISTORY_LIMIT", "many")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric history limit")
	}
}

func TestLoadCLIDefaults(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadCLIDefaults(filepath.Join(dir, "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Practice.Min != nil || cfg.Practice.Max != nil {
			t.Errorf("expected empty config, got %+v", cfg.Practice)
		}
	})

	t.Run("values", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		content := "[practice]\nmin = 10\nmax = 500\ndecimal = true\ndecimal-places = 2\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadCLIDefaults(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p := cfg.Practice
		if p.Min == nil || *p.Min != 10 || p.Max == nil || *p.Max != 500 {
			t.Errorf("unexpected range: %+v", p)
		}
		if p.Decimal == nil || !*p.Decimal || p.DecimalPlaces == nil || *p.DecimalPlaces != 2 {
			t.Errorf("unexpected decimal settings: %+v", p)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		if err := os.WriteFile(path, []byte("[practice\nmin ="), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadCLIDefaults(path); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := LoadCLIDefaults(""); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestDefaultCLIConfigPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	want := filepath.Join("/tmp/xdg", "zahlentrainer", "config.toml")
	if got := DefaultCLIConfigPath(); got != want {
		t.Errorf("DefaultCLIConfigPath() = %q, want %q", got, want)
	}
}
