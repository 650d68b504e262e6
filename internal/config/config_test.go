package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTExpireMinute != 60 {
		t.Errorf("JWTExpireMinute = %d, want 60", cfg.Auth.JWTExpireMinute)
	}
	if cfg.Database.Driver != DriverMySQL {
		t.Errorf("Driver = %q, want %q", cfg.Database.Driver, DriverMySQL)
	}
	if cfg.Blog.ListCountsReads {
		t.Error("ListCountsReads should default to false")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9000

[database]
driver = "postgres"

[postgres]
host = "db.internal"
db = "blog"

[blog]
default_page_size = 5
max_page_size = 50
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("BLOG_LIST_COUNTS_READS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.App.Port)
	}
	if cfg.Blog.DefaultPageSize != 5 {
		t.Errorf("DefaultPageSize = %d, want 5", cfg.Blog.DefaultPageSize)
	}
	if !cfg.Blog.ListCountsReads {
		t.Error("ListCountsReads should be enabled by env")
	}
	want := "host=db.internal port=5432 user=postgres password= dbname=blog sslmode=disable"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, want %q", got, want)
	}
}

func TestDatabaseDSNPrefersExplicitDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.DSN = "user:pw@tcp(x:3306)/y"
	if got := cfg.DatabaseDSN(); got != cfg.Database.DSN {
		t.Errorf("DatabaseDSN() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = " " }},
		{"zero expiry", func(c *Config) { c.Auth.JWTExpireMinute = 0 }},
		{"max below default", func(c *Config) { c.Blog.MaxPageSize = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}
