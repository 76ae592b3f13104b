package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DataDir    string       `mapstructure:"data_dir"`
	PublicMode bool         `mapstructure:"public_mode"`
	Server     ServerConfig `mapstructure:"server"`
	Store      StoreConfig  `mapstructure:"store"`
	Log        LogConfig    `mapstructure:"log"`
	Enrich     EnrichConfig `mapstructure:"enrich"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	URL             string        `mapstructure:"url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// EnrichConfig controls metadata lookups made when a link is saved without a title.
type EnrichConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	ReaderURL string        `mapstructure:"reader_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads defaults, then <data_dir>/config.yaml if present, then NOTECARDS_* env vars.
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadWith is Load on top of a caller-provided viper instance, so cobra flags
// bound to it take precedence.
func LoadWith(v *viper.Viper) (*Config, error) {
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".notecards")

	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("public_mode", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.url", "")
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("enrich.enabled", true)
	v.SetDefault("enrich.reader_url", "https://r.jina.ai/")
	v.SetDefault("enrich.timeout", 30*time.Second)

	// Environment variable overrides
	v.SetEnvPrefix("NOTECARDS")
	v.AutomaticEnv()
	v.BindEnv("data_dir", "NOTECARDS_DATA_DIR")
	v.BindEnv("public_mode", "NOTECARDS_PUBLIC_MODE", "PUBLIC_MODE")
	v.BindEnv("server.addr", "NOTECARDS_SERVER_ADDR")
	v.BindEnv("server.url", "NOTECARDS_SERVER_URL")
	v.BindEnv("server.request_timeout", "NOTECARDS_REQUEST_TIMEOUT")
	v.BindEnv("server.cors_origins", "NOTECARDS_CORS_ORIGINS")
	v.BindEnv("store.driver", "NOTECARDS_STORE_DRIVER")
	v.BindEnv("store.dsn", "NOTECARDS_STORE_DSN", "DATABASE_URL")
	v.BindEnv("log.level", "NOTECARDS_LOG_LEVEL")
	v.BindEnv("log.format", "NOTECARDS_LOG_FORMAT")
	v.BindEnv("enrich.enabled", "NOTECARDS_ENRICH_ENABLED")
	v.BindEnv("enrich.reader_url", "NOTECARDS_READER_URL")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("data_dir"))

	// Read config file if exists (ignore error if not found)
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if cfg.Store.Driver == DriverSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	return nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "notecards.db")
}

// Remote reports whether clients should talk to a server instead of opening the store.
func (c *Config) Remote() bool {
	return c.Server.URL != ""
}
