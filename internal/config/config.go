package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"waterglobe/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Assets AssetConfig
	Series   SeriesConfig
	Sessions SessionConfig
	Log      LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	APIPrefix    string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DataConfig holds boundary dataset settings
type DataConfig struct {
	WorldFile string
}

// AssetConfig holds flag and water-map image locations
type AssetConfig struct {
	FlagCDNURL  string
	WaterMapDir string
	Locale      string
}

// SeriesConfig holds series synthesis settings
type SeriesConfig struct {
	// Year pins the last series year; 0 means the current calendar year.
	Year             int
	BatchConcurrency int
}

// SessionConfig bounds the per-client chart render sessions
type SessionConfig struct {
	TTL time.Duration
	Max int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			APIPrefix:    getEnvOrDefault("API_PREFIX", "/api"),
			GinMode:      getEnvOrDefault("GIN_MODE", "release"),
			ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			WorldFile: getEnvOrDefault("WORLD_FILE", "world.json"),
		},
		Assets: AssetConfig{
			FlagCDNURL:  strings.TrimRight(getEnvOrDefault("FLAG_CDN_URL", "https://flagcdn.com/w40"), "/"),
			WaterMapDir: getEnvOrDefault("WATERMAP_DIR", "watermaps"),
			Locale:      getEnvOrDefault("LOCALE", "tr-TR"),
		},
		Series: SeriesConfig{
			Year:             getEnvIntOrDefault("SERIES_YEAR", 0),
			BatchConcurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
		},
		Sessions: SessionConfig{
			TTL: getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
			Max: getEnvIntOrDefault("MAX_SESSIONS", 10000),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + strconv.Quote(config.Server.Port))
	}
	if !strings.HasPrefix(config.Server.APIPrefix, "/") || config.Server.APIPrefix == "/" {
		return errors.ConfigInvalid("API_PREFIX must start with / and name a sub-path")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Data.WorldFile == "" {
		return errors.ConfigInvalid("WORLD_FILE is required")
	}
	if _, err := url.ParseRequestURI(config.Assets.FlagCDNURL); err != nil {
		return errors.ConfigInvalid("FLAG_CDN_URL is not a valid URL")
	}
	if config.Series.Year < 0 {
		return errors.ConfigInvalid("SERIES_YEAR cannot be negative")
	}
	if config.Series.BatchConcurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if config.Sessions.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Sessions.Max < 1 {
		return errors.ConfigInvalid("MAX_SESSIONS must be at least 1")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
