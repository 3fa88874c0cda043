package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	OutputConsole = "console"
	OutputJSON    = "json"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	DefaultServer  string `mapstructure:"default_server"`
	DefaultTimeout int    `mapstructure:"default_timeout"`
	OutputFormat   string `mapstructure:"output_format"`
	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "http-methods")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("default_server", "https://httpbin.org")
	v.SetDefault("default_timeout", 15) // seconds
	v.SetDefault("output_format", OutputConsole)
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/history.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.DefaultServer = strings.TrimRight(strings.TrimSpace(cfg.DefaultServer), "/")
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)

	if cfg.DefaultServer == "" {
		return fmt.Errorf("invalid default_server (must not be empty)")
	}
	if cfg.DefaultTimeout <= 0 {
		return fmt.Errorf("invalid default_timeout (must be positive seconds)")
	}
	switch cfg.OutputFormat {
	case OutputConsole, OutputJSON:
	default:
		return fmt.Errorf("invalid output_format %q (expected %s or %s)", cfg.OutputFormat, OutputConsole, OutputJSON)
	}

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second
	return nil
}
