package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Preference backends accepted by PREFERENCE_BACKEND.
const (
	BackendCookie = "cookie"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Server      ServerConfig
	Preferences PreferenceConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Admin       AdminConfig
	App         AppConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type PreferenceConfig struct {
	Backend string
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AdminConfig struct {
	Username string
	Password string
	// DefaultCredentials is set when either credential fell back to its
	// development default.
	DefaultCredentials bool
}

type AppConfig struct {
	Name            string
	Version         string
	CatalogPath     string
	TrackingEnabled bool
	RetentionMonths int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Preferences: PreferenceConfig{
			Backend: strings.ToLower(getEnv("PREFERENCE_BACKEND", BackendCookie)),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "portfolio.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		App: AppConfig{
			Name:            getEnv("APP_NAME", "portfolio"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			CatalogPath:     getEnv("CATALOG_PATH", ""),
			TrackingEnabled: getEnvAsBool("TRACKING_ENABLED", true),
			RetentionMonths: getEnvAsInt("RETENTION_MONTHS", 12),
		},
	}

	// Default credentials for development (set both in production)
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
		cfg.Admin.DefaultCredentials = true
	}
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = "admin123"
		cfg.Admin.DefaultCredentials = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.Server.GinMode)
	}

	switch c.Preferences.Backend {
	case BackendCookie, BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when PREFERENCE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported PREFERENCE_BACKEND %q", c.Preferences.Backend)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.App.RetentionMonths < 1 {
		return fmt.Errorf("RETENTION_MONTHS must be at least 1, got %d", c.App.RetentionMonths)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}
