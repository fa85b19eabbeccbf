package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csg33k/paycalc/internal/config"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := config.FromEnv(env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if c != config.Default() {
		t.Errorf("got %+v, want defaults %+v", c, config.Default())
	}
	if c.Addr() != ":8080" {
		t.Errorf("Addr = %q", c.Addr())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := config.FromEnv(env(map[string]string{
		"PORT":              "9090",
		"DB_PATH":           "/tmp/x.db",
		"HISTORY_BACKEND":   "Memory",
		"HISTORY_MAX_ITEMS": "25",
		"TAX_YEAR":          "2025",
		"LOG_LEVEL":         "debug",
		"LOG_FORMAT":        "json",
		"SHARE_BASE_URL":    "https://pay.example.com",
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := config.Config{
		Port:            "9090",
		DBPath:          "/tmp/x.db",
		HistoryBackend:  config.BackendMemory,
		HistoryMaxItems: 25,
		TaxYear:         2025,
		LogLevel:        "debug",
		LogFormat:       "json",
		ShareBaseURL:    "https://pay.example.com",
	}
	if c != want {
		t.Errorf("got %+v\nwant %+v", c, want)
	}
}

func TestFromEnv_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paycalc.yaml")
	yml := "port: \"7000\"\nhistory_backend: memory\nhistory_max_items: 10\nlog_level: warn\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := config.FromEnv(env(map[string]string{
		"CONFIG_FILE": path,
		"LOG_LEVEL":   "error", // environment wins over the file
	}))
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != "7000" || c.HistoryBackend != "memory" || c.HistoryMaxItems != 10 || c.LogLevel != "error" {
		t.Errorf("got %+v", c)
	}
	if c.DBPath != "paycalc.db" {
		t.Errorf("DBPath = %q, want default kept", c.DBPath)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad number", map[string]string{"HISTORY_MAX_ITEMS": "lots"}, "not a number"},
		{"zero quota", map[string]string{"HISTORY_MAX_ITEMS": "0"}, "must be positive"},
		{"backend", map[string]string{"HISTORY_BACKEND": "redis"}, "history backend"},
		{"tax year", map[string]string{"TAX_YEAR": "1999"}, "not supported"},
		{"missing file", map[string]string{"CONFIG_FILE": "/nonexistent/paycalc.yaml"}, "read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromEnv(env(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
