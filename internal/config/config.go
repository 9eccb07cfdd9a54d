package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// StoreConfig holds record store configuration
type StoreConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// RedisConfig holds aggregation cache configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AnalyticsConfig holds the statistical thresholds and cache horizons.
// The defaults are the documented engine behavior; overriding them is
// for experimentation, not per-user tuning.
type AnalyticsConfig struct {
	SignificanceThreshold float64       `mapstructure:"significance_threshold"`
	AnomalyZThreshold     float64       `mapstructure:"anomaly_z_threshold"`
	AnomalyHighZThreshold float64       `mapstructure:"anomaly_high_z_threshold"`
	MinCorrelationSample  int           `mapstructure:"min_correlation_sample"`
	ForecastMinHistory    int           `mapstructure:"forecast_min_history"`
	SnapshotTTL           time.Duration `mapstructure:"snapshot_ttl"`
	CorrelationTTL        time.Duration `mapstructure:"correlation_ttl"`
	DetectorTTL           time.Duration `mapstructure:"detector_ttl"`
	Modules               []string      `mapstructure:"modules"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("analytics.significance_threshold", 10.0)
	v.SetDefault("analytics.anomaly_z_threshold", 2.0)
	v.SetDefault("analytics.anomaly_high_z_threshold", 3.0)
	v.SetDefault("analytics.min_correlation_sample", 3)
	v.SetDefault("analytics.forecast_min_history", 7)
	v.SetDefault("analytics.snapshot_ttl", 5*time.Minute)
	v.SetDefault("analytics.correlation_ttl", 24*time.Hour)
	v.SetDefault("analytics.detector_ttl", time.Hour)
	v.SetDefault("analytics.modules", []string{
		"tasks", "habits", "mood", "sleep", "journal", "finance", "focus",
	})

	// Read from environment variables
	v.SetEnvPrefix("LIFELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for deployment platforms
	v.BindEnv("server.port", "PORT")
	v.BindEnv("store.url", "LIFESTORE_URL")
	v.BindEnv("store.service_key", "LIFESTORE_SERVICE_KEY")
	v.BindEnv("redis.addr", "REDIS_ADDR")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Store.URL == "" {
		return fmt.Errorf("LIFESTORE_URL is required")
	}
	if c.Store.ServiceKey == "" {
		return fmt.Errorf("LIFESTORE_SERVICE_KEY is required")
	}
	if c.Analytics.AnomalyHighZThreshold < c.Analytics.AnomalyZThreshold {
		return fmt.Errorf("anomaly_high_z_threshold must be >= anomaly_z_threshold")
	}
	return nil
}
