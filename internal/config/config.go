// Package config loads server settings from .env, an optional YAML file
// and the process environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/csg33k/paycalc/internal/taxtables"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port            string `yaml:"port"`
	DBPath          string `yaml:"db_path"`
	HistoryBackend  string `yaml:"history_backend"`
	HistoryMaxItems int    `yaml:"history_max_items"`
	TaxYear         int    `yaml:"tax_year"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	ShareBaseURL    string `yaml:"share_base_url"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		DBPath:          "paycalc.db",
		HistoryBackend:  BackendSQLite,
		HistoryMaxItems: 500,
		TaxYear:         taxtables.DefaultYear,
		LogLevel:        "info",
		LogFormat:       "text",
		ShareBaseURL:    "http://localhost:8080",
	}
}

// Load reads .env (a missing file is only logged), then CONFIG_FILE when
// set, then environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()
	if path := getenv("CONFIG_FILE"); path != "" {
		if err := c.overlay(path); err != nil {
			return c, err
		}
	}

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a number", key, v)
		}
		*dst = n
		return nil
	}

	str("PORT", &c.Port)
	str("DB_PATH", &c.DBPath)
	str("HISTORY_BACKEND", &c.HistoryBackend)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("SHARE_BASE_URL", &c.ShareBaseURL)
	if err := num("HISTORY_MAX_ITEMS", &c.HistoryMaxItems); err != nil {
		return c, err
	}
	if err := num("TAX_YEAR", &c.TaxYear); err != nil {
		return c, err
	}
	c.HistoryBackend = strings.ToLower(c.HistoryBackend)
	return c, c.Validate()
}

func (c *Config) overlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.HistoryBackend != BackendSQLite && c.HistoryBackend != BackendMemory {
		return fmt.Errorf("config: history backend %q must be %s or %s", c.HistoryBackend, BackendSQLite, BackendMemory)
	}
	if c.HistoryMaxItems <= 0 {
		return fmt.Errorf("config: history max items must be positive, got %d", c.HistoryMaxItems)
	}
	if !slices.Contains(taxtables.Supported(), c.TaxYear) {
		return fmt.Errorf("config: tax year %d not supported (have %v)", c.TaxYear, taxtables.Supported())
	}
	if c.Port == "" {
		return fmt.Errorf("config: port is empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }
