package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the defaults tailf applies before command-line flags.
type Config struct {
	Lines     int
	RateHz    int
	Color     bool
	Highlight bool
	Theme     string
	StateDB   string
	LogLevel  string
	WaitMax   time.Duration
}

const (
	defaultConfigPath = "~/.config/tailf/config.toml"
	defaultStateDB    = "~/.local/state/tailf/offsets.db"
	defaultLines      = 10
	defaultRateHz     = 20
	defaultLogLevel   = "warn"
	defaultWaitMax    = 30 * time.Second
	minPollInterval   = time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Lines:    defaultLines,
		RateHz:   defaultRateHz,
		StateDB:  mustExpand(defaultStateDB),
		LogLevel: defaultLogLevel,
		WaitMax:  defaultWaitMax,
	}
}

// Load locates and parses the tailf config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Lines     int    `toml:"lines"`
		RateHz    int    `toml:"rate_hz"`
		Color     bool   `toml:"color"`
		Highlight bool   `toml:"highlight"`
		Theme     string `toml:"theme"`
		StateDB   string `toml:"state_db"`
		LogLevel  string `toml:"log_level"`
		WaitMax   string `toml:"wait_max"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.Lines > 0 {
		cfg.Lines = raw.Lines
	}
	if raw.RateHz > 0 {
		cfg.RateHz = raw.RateHz
	}
	cfg.Color = raw.Color
	cfg.Highlight = raw.Highlight
	cfg.Theme = strings.TrimSpace(raw.Theme)

	if db := strings.TrimSpace(raw.StateDB); db != "" {
		cfg.StateDB = mustExpand(db)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if wait := strings.TrimSpace(raw.WaitMax); wait != "" {
		d, err := time.ParseDuration(wait)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: wait_max: %w", err)
		}
		if d > 0 {
			cfg.WaitMax = d
		}
	}

	return cfg, nil
}

// PollInterval is the follow-mode pacing derived from RateHz, never shorter
// than a millisecond.
func (c Config) PollInterval() time.Duration {
	if c.RateHz <= 0 {
		return time.Second / defaultRateHz
	}
	return max(time.Second/time.Duration(c.RateHz), minPollInterval)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
