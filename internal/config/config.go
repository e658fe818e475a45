package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bookkeeper/internal/logger"
)

type Config struct {
	DatabaseDriver  string
	DatabaseURL     string
	DatabaseDebug   bool
	RedisURL        string
	CacheTTL        int
	ServerPort      string
	AllowedOrigins  []string
	ReconcileAt     string
	ReconcileRepair bool
	Timezone        string
	BackupPrefix    string
	LogLevel        string
	LogFormat       string
	LogOutput       string
	LogTimeFormat   string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		DatabaseDriver:  strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:     getEnv("DATABASE_URL", "bookkeeper.db"),
		DatabaseDebug:   getEnvAsBool("DB_DEBUG", false),
		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTL:        getEnvAsInt("CACHE_TTL", 300),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		ReconcileAt:     getEnv("RECONCILE_AT", "03:00"),
		ReconcileRepair: getEnvAsBool("RECONCILE_REPAIR", false),
		Timezone:        getEnv("TIMEZONE", "Local"),
		BackupPrefix:    getEnv("BACKUP_PREFIX", "bookkeeper-accounts-backup"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogOutput:       getEnv("LOG_OUTPUT", "stdout"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", time.RFC3339),
	}
}

// CacheDuration returns CacheTTL as a duration.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
