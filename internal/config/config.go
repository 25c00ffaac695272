package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds engine-wide configuration settings.
type EngineConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Data     DataConfig     `yaml:"data"`
}

// DatabaseConfig selects the storage backend and its connection settings.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// SQLitePath is the database file path when Driver is "sqlite".
	SQLitePath string `yaml:"sqlite_path"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DataConfig holds paths to the yaml data files loaded at startup.
type DataConfig struct {
	MobsFile     string `yaml:"mobs_file"`
	AreasFile    string `yaml:"areas_file"`
	SettingsFile string `yaml:"settings_file"`
}

// DefaultConfig returns an EngineConfig with sensible defaults.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/eldvar.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		Data: DataConfig{
			MobsFile:     "data/mobs.yaml",
			AreasFile:    "data/areas.yaml",
			SettingsFile: "data/settings.yaml",
		},
	}
}

// LoadConfig loads engine configuration from a YAML file.
// If the file doesn't exist, returns default config. Environment
// variables override the database selection afterwards.
func LoadConfig(path string) (*EngineConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides lets deployment environments swap the storage
// backend without editing the config file.
func applyEnvOverrides(config *EngineConfig) {
	if driver := os.Getenv("ELDVAR_DB_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if path := os.Getenv("ELDVAR_SQLITE_PATH"); path != "" {
		config.Database.SQLitePath = path
	}
	if host := os.Getenv("ELDVAR_PG_HOST"); host != "" {
		config.Database.Postgres.Host = host
	}
	if port := os.Getenv("ELDVAR_PG_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Postgres.Port = p
		}
	}
	if user := os.Getenv("ELDVAR_PG_USER"); user != "" {
		config.Database.Postgres.User = user
	}
	if password := os.Getenv("ELDVAR_PG_PASSWORD"); password != "" {
		config.Database.Postgres.Password = password
	}
	if dbname := os.Getenv("ELDVAR_PG_DATABASE"); dbname != "" {
		config.Database.Postgres.Database = dbname
	}
}
