// Package config provides configuration management and dependency injection
// for the crew dispatch service. It handles loading configuration from files
// and environment variables, and sets up the DI container.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	LogLevel   string `mapstructure:"log_level"`
	ListenAddr string `mapstructure:"listen_addr"`

	Database DatabaseConfig `mapstructure:"database"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`

	// Background sweep cadence.
	RequestExpirySchedule string `mapstructure:"request_expiry_schedule"`
	TrashPurgeSchedule    string `mapstructure:"trash_purge_schedule"`
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	DBName   string `mapstructure:"dbName"`
	SSLMode  string `mapstructure:"sslMode"`

	// Connection pool settings.
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// WebhookConfig represents the activity feed webhook configuration.
type WebhookConfig struct {
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("request_expiry_schedule", "*/5 * * * *")
	v.SetDefault("trash_purge_schedule", "30 3 * * *")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")

	// Set config file.
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/crewdispatch")
	}

	// Enable environment variables.
	v.SetEnvPrefix("CREW")
	v.AutomaticEnv()

	// Read config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration.
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}

	if c.RequestExpirySchedule == "" {
		return fmt.Errorf("request_expiry_schedule is required")
	}

	if c.TrashPurgeSchedule == "" {
		return fmt.Errorf("trash_purge_schedule is required")
	}

	return nil
}

// GetDatabaseDSN returns the database connection string.
func (c *DatabaseConfig) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
