// FilePath: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   PostgresConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Liveness   LivenessConfig   `mapstructure:"liveness"`
	Fallback   FallbackConfig   `mapstructure:"fallback"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether a latest-reading cache should be wired at all.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type LivenessConfig struct {
	// StaleThreshold is the window after which a silent sensor counts as
	// disconnected. Liveness is inferred from last contact; there is no
	// heartbeat protocol.
	StaleThreshold time.Duration `mapstructure:"stale_threshold"`
}

type FallbackConfig struct {
	// MaxReadings caps the in-memory store. Oldest readings are evicted
	// first, by insertion order.
	MaxReadings int `mapstructure:"max_readings"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("VIGILAIRE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "24h")

	// Liveness defaults
	viper.SetDefault("liveness.stale_threshold", "60s")

	// Fallback store defaults
	viper.SetDefault("fallback.max_readings", 10000)

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Liveness.StaleThreshold <= 0 {
		return fmt.Errorf("liveness stale_threshold must be positive")
	}
	if config.Fallback.MaxReadings <= 0 {
		return fmt.Errorf("fallback max_readings must be positive")
	}
	return nil
}
