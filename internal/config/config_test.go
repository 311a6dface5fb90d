package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ownck.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Check.MaxDiagnostics != 100 || cfg.Check.Jobs != 0 || cfg.Check.Color != "auto" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[check]
max-diagnostics = 25
jobs = 4
color = "off"
timings = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Check.MaxDiagnostics != 25 || cfg.Check.Jobs != 4 || cfg.Check.Color != "off" || !cfg.Check.Timings {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := writeConfig(t, `
[check]
jobs = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Check.Jobs != 2 {
		t.Fatalf("jobs = %d, want 2", cfg.Check.Jobs)
	}
	if cfg.Check.MaxDiagnostics != 100 || cfg.Check.Color != "auto" {
		t.Fatalf("omitted keys must keep defaults: %+v", cfg)
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := writeConfig(t, `
[check]
color = "sometimes"
`)
	if _, err := Load(path); !errors.Is(err, ErrBadColorMode) {
		t.Fatalf("err = %v, want ErrBadColorMode", err)
	}
}

func TestLoadRejectsNegativeLimit(t *testing.T) {
	path := writeConfig(t, `
[check]
max-diagnostics = -1
`)
	if _, err := Load(path); err == nil {
		t.Fatal("negative limit must not load")
	}
}

func TestLoadRejectsSyntaxError(t *testing.T) {
	path := writeConfig(t, `[check`)
	if _, err := Load(path); err == nil {
		t.Fatal("broken TOML must not load")
	}
}
