// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPlayerTriggerTolerance = 1.5 // seconds either side of an anchor
	defaultPlayerTickInterval     = time.Second
	defaultPlayerSkipSeconds      = 10.0
	defaultPlayerRate             = 1.0
	defaultDatabasePath           = "./data/bolt.db"
	defaultDatabaseConnTimeout    = 5 * time.Second
	defaultDatabaseEnableWAL      = true
	defaultMigrationsPath         = "file://./migrations"
	defaultCatalogBaseURL         = ""
	defaultCatalogTimeout         = 10 * time.Second
	defaultLogLevel               = "info"
	defaultLogPretty              = false
	envPrefix                     = "BOLT"
)

// Config holds all application configuration
type Config struct {
	Player   PlayerConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Logging  LoggingConfig
}

// PlayerConfig holds timeline engine tuning
type PlayerConfig struct {
	// TriggerTolerance is the window in seconds around an anchor
	// timestamp within which a question fires. It must survive the
	// coarse granularity of time-advanced callbacks.
	TriggerTolerance float64
	// TickInterval drives the interaction countdown
	TickInterval time.Duration
	// SkipSeconds is the transport skip step
	SkipSeconds float64
	// DefaultRate is the playback rate applied on load
	DefaultRate float64
}

// DatabaseConfig holds local store configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// CatalogConfig holds remote question-catalog fetch configuration.
// An empty BaseURL means the catalog is served from the local store.
type CatalogConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bolt")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("player.triggertolerance", defaultPlayerTriggerTolerance)
	v.SetDefault("player.tickinterval", defaultPlayerTickInterval)
	v.SetDefault("player.skipseconds", defaultPlayerSkipSeconds)
	v.SetDefault("player.defaultrate", defaultPlayerRate)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	v.SetDefault("catalog.baseurl", defaultCatalogBaseURL)
	v.SetDefault("catalog.requesttimeout", defaultCatalogTimeout)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Player.TriggerTolerance <= 0 {
		return fmt.Errorf("invalid trigger tolerance: %v (must be > 0)", c.Player.TriggerTolerance)
	}
	if c.Player.TickInterval <= 0 {
		return fmt.Errorf("invalid tick interval: %v (must be > 0)", c.Player.TickInterval)
	}
	if c.Player.SkipSeconds <= 0 {
		return fmt.Errorf("invalid skip seconds: %v (must be > 0)", c.Player.SkipSeconds)
	}

	if c.Database.Path == "" {
		return errors.New("database path must not be empty")
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	if c.Catalog.RequestTimeout <= 0 {
		return fmt.Errorf("invalid catalog request timeout: %v (must be > 0)", c.Catalog.RequestTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
