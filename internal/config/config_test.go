package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// chdir switches into a fresh temp dir so no stray config.yaml or .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

const validYAML = `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 8
  min_conns: 2
  max_conn_lifetime: "2h"

log:
  level: "debug"
  format: "json"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := chdir(t)
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("Database.DSN = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 8 {
		t.Errorf("Database.MaxConns = %d, want 8", cfg.Database.MaxConns)
	}
	if cfg.Database.MinConns != 2 {
		t.Errorf("Database.MinConns = %d, want 2", cfg.Database.MinConns)
	}
	if cfg.Database.MaxConnLifetime != 2*time.Hour {
		t.Errorf("Database.MaxConnLifetime = %v, want 2h", cfg.Database.MaxConnLifetime)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := chdir(t)
	writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json from ./config.yaml", cfg.Log.Format)
	}
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.DSN != "" {
		t.Errorf("Database.DSN = %q, want empty", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("Database.MaxConns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnIdleTime != 30*time.Minute {
		t.Errorf("Database.MaxConnIdleTime = %v, want 30m", cfg.Database.MaxConnIdleTime)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := chdir(t)
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATABASE_MAX_CONNS", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Database.MaxConns != 20 {
		t.Errorf("Database.MaxConns = %d, want 20", cfg.Database.MaxConns)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := chdir(t)
	t.Setenv("CONFIG_PATH", "")
	// Registered so t.Setenv restores the variable after godotenv sets it.
	t.Setenv("DATABASE_DSN", "")
	os.Unsetenv("DATABASE_DSN")

	env := "DATABASE_DSN=postgres://dotenv@localhost/db\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.DSN != "postgres://dotenv@localhost/db" {
		t.Errorf("Database.DSN = %q, want value from .env", cfg.Database.DSN)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	chdir(t)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit CONFIG_PATH")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	chdir(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for LOG_LEVEL=verbose")
	}
	if !strings.Contains(err.Error(), "level") {
		t.Errorf("error = %v, want mention of level", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Database: DatabaseConfig{MaxConns: 10, MinConns: 1},
			Log:      LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "uppercase level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "format"},
		{name: "zero max conns", mutate: func(c *Config) { c.Database.MaxConns = 0 }, wantErr: "max_conns"},
		{name: "min above max", mutate: func(c *Config) { c.Database.MinConns = 11 }, wantErr: "min_conns"},
		{name: "negative min", mutate: func(c *Config) { c.Database.MinConns = -1 }, wantErr: "min_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireDatabase(t *testing.T) {
	cfg := Config{}
	if err := cfg.RequireDatabase(); err == nil {
		t.Error("expected error for empty DSN")
	}

	cfg.Database.DSN = "postgres://localhost/db"
	if err := cfg.RequireDatabase(); err != nil {
		t.Errorf("RequireDatabase() error: %v", err)
	}
}
