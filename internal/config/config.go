package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the whole application configuration, populated from environment variables.
type Config struct {
	App    AppConfig
	Redis  RedisConfig
	JWT    JWTConfig
	MinIO  MinIOConfig
	Import ImportConfig
	Jobs   JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Enabled   bool // archive uploaded spreadsheets
}

// ImportConfig bounds the spreadsheet import wizard.
type ImportConfig struct {
	MaxRows            int
	MaxFileBytes       int64
	SessionTTL         time.Duration
	ForeignApplication string // application assigned to foreign-export rows
	StaleJobAfter      time.Duration
}

// JobConfig controls the worker's scheduled tasks.
type JobConfig struct {
	ExpireStaleImportsCron string
}

const defaultJWTSecret = "change-me-in-production"

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "IPTV Manager API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", defaultJWTSecret),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "iptv-imports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			Enabled:   getEnvBool("MINIO_ENABLED", true),
		},
		Import: ImportConfig{
			MaxRows:            getEnvInt("IMPORT_MAX_ROWS", 1000),
			MaxFileBytes:       int64(getEnvInt("IMPORT_MAX_FILE_BYTES", 10*1024*1024)),
			SessionTTL:         getEnvDuration("IMPORT_SESSION_TTL", 24*time.Hour),
			ForeignApplication: getEnv("IMPORT_FOREIGN_APPLICATION", "NextApp"),
			StaleJobAfter:      getEnvDuration("IMPORT_STALE_JOB_AFTER", 48*time.Hour),
		},
		Jobs: JobConfig{
			ExpireStaleImportsCron: getEnv("JOB_EXPIRE_STALE_IMPORTS_CRON", "0 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that are unsafe or unusable.
func (c *Config) Validate() error {
	if c.Import.MaxRows <= 0 {
		return fmt.Errorf("IMPORT_MAX_ROWS must be positive")
	}
	if c.Import.MaxFileBytes <= 0 {
		return fmt.Errorf("IMPORT_MAX_FILE_BYTES must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if !c.MinIO.Enabled {
			log.Warn().Msg("MinIO disabled - uploaded spreadsheets will not be archived")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
