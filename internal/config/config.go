package config

import (
	"time"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Decode   DecodeConfig   `yaml:"decode"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver     string `yaml:"driver"      env:"STORE_DRIVER"      env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"STORE_SQLITE_PATH" env-default:"related.db"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// DecodeConfig controls how mappings are turned into records.
type DecodeConfig struct {
	Strict bool `yaml:"strict" env:"DECODE_STRICT" env-default:"false"`
}

// Mode returns the domain decode mode for this configuration.
func (c DecodeConfig) Mode() domain.DecodeMode {
	if c.Strict {
		return domain.DecodeStrict
	}
	return domain.DecodePermissive
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	ChunkSize   int `yaml:"chunk_size"  env:"IMPORT_CHUNK_SIZE"  env-default:"500"`
	Concurrency int `yaml:"concurrency" env:"IMPORT_CONCURRENCY" env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
