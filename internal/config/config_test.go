package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Paths.Inbox != "source_files" || cfg.Paths.Processed != "processed_files" || cfg.Paths.Invalid != "invalid_files" {
		t.Fatalf("unexpected default paths: %+v", cfg.Paths)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty inbox", func(c *Config) { c.Paths.Inbox = " " }, true},
		{"empty output", func(c *Config) { c.Paths.Output = "" }, true},
		{"inbox equals processed", func(c *Config) { c.Paths.Processed = "source_files/" }, true},
		{"processed equals invalid", func(c *Config) { c.Paths.Invalid = "processed_files" }, true},
		{"output equals inbox", func(c *Config) { c.Paths.Output = "source_files" }, true},
		{"output equals processed", func(c *Config) { c.Paths.Output = "./processed_files/" }, true},
		{"output equals invalid", func(c *Config) { c.Paths.Output = "invalid_files" }, false},
		{"output subdirectory", func(c *Config) { c.Paths.Output = "out/artifacts" }, false},
		{"json logs", func(c *Config) { c.Log.Format = "json" }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"upper case level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"empty schedule", func(c *Config) { c.WatchSchedule = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Paths.Inbox != "source_files" {
		t.Fatalf("expected default inbox, got %q", cfg.Paths.Inbox)
	}
	if cfg.DatabaseEnabled {
		t.Fatalf("database should be disabled by default")
	}
}

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `paths:
  inbox: /data/in
  processed: /data/done
  invalid: /data/rejected
report:
  enabled: true
database:
  enabled: true
  port: 6543
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CSVGATE_PATHS_OUTPUT", "/data/out")
	t.Setenv("CSVGATE_DATABASE_HOST", "db.internal")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Paths.Inbox != "/data/in" || cfg.Paths.Processed != "/data/done" || cfg.Paths.Invalid != "/data/rejected" {
		t.Fatalf("yaml paths not applied: %+v", cfg.Paths)
	}
	if cfg.Paths.Output != "/data/out" {
		t.Fatalf("env override not applied, output=%q", cfg.Paths.Output)
	}
	if !cfg.ReportEnabled || !cfg.DatabaseEnabled {
		t.Fatalf("expected report and database enabled: %+v", cfg)
	}
	if cfg.Database.Port != 6543 || cfg.Database.Host != "db.internal" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Database.User != "postgres" {
		t.Fatalf("database user should keep default, got %q", cfg.Database.User)
	}
}
