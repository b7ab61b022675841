// Package config loads cadence settings from an optional YAML file and
// CADENCE_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxWindowDays = 1096
	DefaultAgendaWorkers = 4
	DefaultLogLevel      = "warn"
)

type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// MaxWindowDays caps occurrence and agenda queries.
	MaxWindowDays int           `yaml:"max_window_days"`
	AgendaWorkers int           `yaml:"agenda_workers"`
	Log           LogConfig     `yaml:"log"`
	Metrics       MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// UseCases logs every service use case at info level.
	UseCases bool `yaml:"use_cases"`
}

type MetricsConfig struct {
	// Textfile is a node-exporter textfile path written on exit. Empty
	// disables metrics.
	Textfile string `yaml:"textfile"`
}

// Dir returns the cadence home directory, ~/.cadence.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".cadence"), nil
}

// DefaultConfig returns the built-in settings. DBPath falls back to a
// relative path when the home directory is unknown.
func DefaultConfig() *Config {
	dbPath := filepath.Join(".cadence", "cadence.db")
	if dir, err := Dir(); err == nil {
		dbPath = filepath.Join(dir, "cadence.db")
	}
	return &Config{
		DBPath:        dbPath,
		MaxWindowDays: DefaultMaxWindowDays,
		AgendaWorkers: DefaultAgendaWorkers,
		Log:           LogConfig{Level: DefaultLogLevel},
	}
}

// LoadFromFile reads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the config file (path, then CADENCE_CONFIG, then
// ~/.cadence/config.yaml), applies environment overrides and validates the
// result. Only the default file may be missing.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv("CADENCE_CONFIG")
	}
	if path == "" {
		explicit = false
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg from CADENCE_* variables. Unparseable numbers and
// booleans are ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CADENCE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CADENCE_MAX_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWindowDays = n
		}
	}
	if v := os.Getenv("CADENCE_AGENDA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AgendaWorkers = n
		}
	}
	if v := os.Getenv("CADENCE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CADENCE_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.UseCases = b
		}
	}
	if v := os.Getenv("CADENCE_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.MaxWindowDays <= 0 {
		return fmt.Errorf("max_window_days must be positive, got %d", c.MaxWindowDays)
	}
	if c.AgendaWorkers <= 0 {
		return fmt.Errorf("agenda_workers must be positive, got %d", c.AgendaWorkers)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
