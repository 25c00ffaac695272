package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.SQLitePath != "data/eldvar.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want 5432", cfg.Database.Postgres.Port)
	}
	if cfg.Data.MobsFile != "data/mobs.yaml" {
		t.Errorf("MobsFile = %q", cfg.Data.MobsFile)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", cfg.Database.Driver)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := `database:
  driver: postgres
  postgres:
    host: db.internal
    port: 5433
    user: eldvar
    database: eldvar
data:
  mobs_file: custom/mobs.yaml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.Postgres.Host != "db.internal" || cfg.Database.Postgres.Port != 5433 {
		t.Errorf("Postgres = %+v", cfg.Database.Postgres)
	}
	if cfg.Data.MobsFile != "custom/mobs.yaml" {
		t.Errorf("MobsFile = %q, want custom/mobs.yaml", cfg.Data.MobsFile)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Data.AreasFile != "data/areas.yaml" {
		t.Errorf("AreasFile = %q, want default", cfg.Data.AreasFile)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("database: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted malformed yaml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ELDVAR_DB_DRIVER", "postgres")
	t.Setenv("ELDVAR_PG_HOST", "override.host")
	t.Setenv("ELDVAR_PG_PORT", "6543")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.Postgres.Host != "override.host" {
		t.Errorf("Host = %q, want override.host", cfg.Database.Postgres.Host)
	}
	if cfg.Database.Postgres.Port != 6543 {
		t.Errorf("Port = %d, want 6543", cfg.Database.Postgres.Port)
	}
}

func TestEnvOverrideBadPortIgnored(t *testing.T) {
	t.Setenv("ELDVAR_PG_PORT", "not-a-port")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Port = %d, want default 5432", cfg.Database.Postgres.Port)
	}
}
