package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/duailibe/jira-report/internal/report"
)

const (
	appDir         = "jira-report"
	configFileName = "config.yaml"
)

// Config is the on-disk configuration. Jira field and type ids differ per
// site, so everything the report engine keys on can be set here.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	Email          string `yaml:"email"`
	Timezone       string `yaml:"timezone"`
	Marker         string `yaml:"marker"`
	StartDateField string `yaml:"start_date_field"`
	EpicTypeID     string `yaml:"epic_type_id"`
	EpicTypeName   string `yaml:"epic_type_name"`
	TaskTypeID     string `yaml:"task_type_id"`
	PageSize       int    `yaml:"page_size"`
	Concurrency    int    `yaml:"concurrency"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	PrefsPath      string `yaml:"prefs_path"`
}

func Default() *Config {
	return &Config{
		Marker:         report.DefaultMarker,
		StartDateField: report.DefaultStartDateField,
		EpicTypeID:     report.DefaultEpicTypeID,
		EpicTypeName:   report.DefaultEpicTypeName,
		TaskTypeID:     report.DefaultTaskTypeID,
		PageSize:       report.DefaultPageSize,
		Concurrency:    1,
		LogLevel:       "warn",
		LogFormat:      "console",
	}
}

func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appDir, configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(home, ".config", appDir, configFileName), nil
}

// DefaultPrefsPath is where the preferences database lives unless
// prefs_path says otherwise.
func DefaultPrefsPath() (string, error) {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, appDir, "prefs.db"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(home, ".local", "share", appDir, "prefs.db"), nil
}

// Load reads path on top of the defaults. A missing file is fine; the
// environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update applies fn to the file at path and writes it back. Environment
// overrides are not read, so they never end up on disk.
func Update(path string, fn func(*Config)) error {
	cfg, err := readFile(path)
	if err != nil {
		return err
	}
	fn(cfg)
	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.Save(path)
}

func readFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JIRA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("JIRA_EMAIL"); v != "" {
		c.Email = v
	}
	if v := os.Getenv("JIRA_REPORT_TZ"); v != "" {
		c.Timezone = v
	}
	c.BaseURL = normalizeBaseURL(c.BaseURL)
}

func normalizeBaseURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

func (c *Config) Validate() error {
	if c.PageSize < 0 || c.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 0 and 1000 (0 uses the default), got %d", c.PageSize)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Location resolves timezone; empty means the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ReportOptions maps the config onto the engine's options.
func (c *Config) ReportOptions() (report.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		StartDateField: c.StartDateField,
		EpicTypeID:     c.EpicTypeID,
		EpicTypeName:   c.EpicTypeName,
		TaskTypeID:     c.TaskTypeID,
		Marker:         c.Marker,
		PageSize:       c.PageSize,
		Concurrency:    c.Concurrency,
		Location:       loc,
	}, nil
}
