package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. WANIKANI_API_KEY.
const EnvPrefix = "WANIKANI"

// Config holds the settings shared by the CLI and the watcher.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	APIKey             string        `mapstructure:"api_key"`
	URLTemplate        string        `mapstructure:"url_template"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
	UnlockLimit         int           `mapstructure:"unlock_limit"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from a .env file, the environment and defaults.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith is Load on a caller-provided viper instance, so flags bound by the
// caller take precedence over the environment.
func LoadWith(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load(".env")

	v.SetDefault("app_name", "crabigator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_key", "")
	v.SetDefault("url_template", "https://www.wanikani.com/api/v{version}/user/{key}/{resource}/{argument}")
	v.SetDefault("user_agent", "crabigator/1.0")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 900) // seconds
	v.SetDefault("unlock_limit", 10)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/notifications.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("api_key is required (set WANIKANI_API_KEY)")
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.UnlockLimit < 0 {
		return nil, fmt.Errorf("invalid unlock_limit (must not be negative)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "REDACTED"
	}
	return c
}
