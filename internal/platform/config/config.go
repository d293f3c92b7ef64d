package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultRateLimitPerMinute is the per-tenant admission ceiling used when no
// valid override is configured.
const DefaultRateLimitPerMinute = 60

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type AuthConfig struct {
	// Required forces bearer-token tenant resolution on the webhook route and
	// disables the unscoped fallback for tenant-scoped reads.
	Required bool `mapstructure:"required"`
}

type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyEnvOverrides(&config)

	if config.RateLimit.PerMinute <= 0 {
		config.RateLimit.PerMinute = DefaultRateLimitPerMinute
	}

	return &config, nil
}

// applyEnvOverrides handles the deployment knobs recognized by name. The
// rate-limit override is parsed strictly: non-numeric or non-positive values
// are ignored so the default ceiling applies.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MISSION_CONTROL_AUTH_REQUIRED"); v != "" {
		config.Auth.Required = v == "true"
	}
	if v := os.Getenv("MISSION_CONTROL_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimit.PerMinute = n
		}
	}
}
