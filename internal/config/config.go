// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// SupportedDriver is the only database/sql driver linked into the binaries.
const SupportedDriver = "postgres"

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
}

type AppConfig struct {
	Environment string
	Username    string
	ExportDir   string
}

// DatabaseConfig describes the optional SQL export target.
type DatabaseConfig struct {
	Enabled  bool
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LogConfig struct {
	Debug bool
	File  string
}

// Load reads an optional .env file from the working directory and then the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Environment: getEnv("ENVIRONMENT", "development"),
			Username:    getEnv("TASKPLANNER_USER", "me"),
			ExportDir:   getEnv("TASKPLANNER_EXPORT_DIR", "."),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Driver:   getEnv("DB_DRIVER", SupportedDriver),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taskplanner"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Log: LogConfig{
			Debug: getEnvAsBool("LOG_DEBUG", false),
			File:  getEnv("LOG_FILE", ""),
		},
	}
}

// ValidateConfig checks values that would only fail later at use.
func (c *Config) ValidateConfig() error {
	var problems []string
	if strings.TrimSpace(c.App.Username) == "" {
		problems = append(problems, "TASKPLANNER_USER must not be empty")
	}
	if c.App.ExportDir == "" {
		problems = append(problems, "TASKPLANNER_EXPORT_DIR must not be empty")
	}
	if c.Database.Enabled {
		if c.Database.Driver != SupportedDriver {
			problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not supported (only %q)", c.Database.Driver, SupportedDriver))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			problems = append(problems, fmt.Sprintf("DB_PORT out of range: %d", c.Database.Port))
		}
		if c.Database.DBName == "" {
			problems = append(problems, "DB_NAME is required when DB_ENABLED is set")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
