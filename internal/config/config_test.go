package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Lines != defaultLines {
		t.Fatalf("Lines = %d, want %d", cfg.Lines, defaultLines)
	}
	if cfg.RateHz != defaultRateHz {
		t.Fatalf("RateHz = %d, want %d", cfg.RateHz, defaultRateHz)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.WaitMax != defaultWaitMax {
		t.Fatalf("WaitMax = %v, want %v", cfg.WaitMax, defaultWaitMax)
	}

	wantDB, err := expandPath(defaultStateDB)
	if err != nil {
		t.Fatalf("expandPath(defaultStateDB) returned error: %v", err)
	}
	if cfg.StateDB != wantDB {
		t.Fatalf("StateDB = %q, want %q", cfg.StateDB, wantDB)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
lines = 25
rate_hz = 4
color = true
highlight = true
theme = "  Kanagawa  "
state_db = "  ~/.tailf/cursors.db  "
log_level = " DEBUG "
wait_max = "5s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Lines != 25 {
		t.Fatalf("Lines = %d, want 25", cfg.Lines)
	}
	if cfg.RateHz != 4 {
		t.Fatalf("RateHz = %d, want 4", cfg.RateHz)
	}
	if !cfg.Color || !cfg.Highlight {
		t.Fatalf("Color/Highlight = %v/%v, want true/true", cfg.Color, cfg.Highlight)
	}
	if cfg.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, "Kanagawa")
	}
	if !strings.HasPrefix(cfg.StateDB, home) {
		t.Fatalf("StateDB = %q, want it under HOME %q", cfg.StateDB, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.WaitMax != 5*time.Second {
		t.Fatalf("WaitMax = %v, want 5s", cfg.WaitMax)
	}
	if got := cfg.PollInterval(); got != 250*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 250ms", got)
	}
}

func TestLoad_NonPositiveValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
lines = 0
rate_hz = -3
state_db = "   "
log_level = ""
wait_max = "0s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load = %+v, want %+v", cfg, want)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`lines = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidWaitMaxFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`wait_max = "soon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "wait_max") {
		t.Fatalf("Load error = %v, want it to mention wait_max", err)
	}
}

func TestPollInterval_DefaultsWhenRateUnset(t *testing.T) {
	var cfg Config
	if got := cfg.PollInterval(); got != 50*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 50ms", got)
	}
}

func TestPollInterval_ClampsHugeRates(t *testing.T) {
	for _, rate := range []int{1000, 2_000_000_000} {
		cfg := Config{RateHz: rate}
		if got := cfg.PollInterval(); got != time.Millisecond {
			t.Fatalf("PollInterval(rate=%d) = %v, want 1ms", rate, got)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
