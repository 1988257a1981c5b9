package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "redis" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "fieldaim:" {
		t.Errorf("key prefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Aiming.SessionIdleTTL() != 15*time.Minute {
		t.Errorf("idle ttl = %v", cfg.Aiming.SessionIdleTTL())
	}
	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("http timeouts not defaulted: %+v", cfg.HTTP)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }},
		{"no addrs", func(c *Config) { c.Database.Addrs = nil }},
		{"unsupported driver", func(c *Config) { c.Database.Driver = "valkey" }},
		{"negative retention", func(c *Config) { c.Storage.AimRetentionHours = -1 }},
		{"huge smoothing window", func(c *Config) { c.Aiming.HeadingSmoothingWindow = 1000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("FIELDAIM_TEST_PORT", "9090")
	t.Setenv("FIELDAIM_TEST_KEY", "secret")

	raw := []byte(`
http:
  port: ${FIELDAIM_TEST_PORT}
database:
  addrs: ["${FIELDAIM_TEST_REDIS:-localhost:6379}"]
auth:
  api_keys: ["${FIELDAIM_TEST_KEY}"]
aiming:
  heading_smoothing_window: 5
  session_idle_ttl_sec: 60
  feedback_enabled: true
storage:
  aim_retention_hours: 48
`)
	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "secret" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
	if cfg.Aiming.HeadingSmoothingWindow != 5 || !cfg.Aiming.FeedbackEnabled {
		t.Errorf("aiming = %+v", cfg.Aiming)
	}
	if cfg.Aiming.SessionIdleTTL() != time.Minute {
		t.Errorf("idle ttl = %v", cfg.Aiming.SessionIdleTTL())
	}
	if cfg.Storage.AimRetention() != 48*time.Hour {
		t.Errorf("retention = %v", cfg.Storage.AimRetention())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error for missing addrs")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FIELDAIM_SET", "value")
	tests := []struct {
		in, want string
	}{
		{"${FIELDAIM_SET}", "value"},
		{"${FIELDAIM_UNSET_X:-fallback}", "fallback"},
		{"${FIELDAIM_UNSET_X}", ""},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FIELDAIM_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIELDAIM_DOTENV_TEST", "")
	os.Unsetenv("FIELDAIM_DOTENV_TEST")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("FIELDAIM_DOTENV_TEST"); got != "from-file" {
		t.Errorf("FIELDAIM_DOTENV_TEST = %q", got)
	}
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing files should be ignored: %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
}
