package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gograph/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig `validate:"required"`
	Server    ServerConfig   `validate:"required"`
	Ops       OpsConfig      `validate:"required"`
	Upload    UploadConfig   `validate:"required"`
	Session   SessionConfig  `validate:"required"`
	Surface   SurfaceConfig  `validate:"required"`
	Export    ExportConfig   `validate:"required"`
	Profiling ProfilingConfig
	LogLevel  string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// DatabaseConfig holds database connection settings. An empty URL runs the
// service without saved-graph storage.
type DatabaseConfig struct {
	Driver string `validate:"oneof=postgres sqlite3"`
	URL    string
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string `validate:"required,numeric"`
	GinMode         string `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration
}

// OpsConfig holds the health/metrics listener settings
type OpsConfig struct {
	Port string `validate:"required,numeric"`
}

// UploadConfig bounds accepted uploads
type UploadConfig struct {
	MaxBytes int64 `validate:"gt=0"`
}

// SessionConfig bounds how long an idle session is kept
type SessionConfig struct {
	TTL time.Duration `validate:"gt=0"`
}

// SurfaceConfig is the pixel size of the rendering surface
type SurfaceConfig struct {
	Width  int `validate:"min=100,max=8000"`
	Height int `validate:"min=100,max=8000"`
}

// ExportConfig bounds concurrent exports
type ExportConfig struct {
	MaxConcurrent int64 `validate:"min=1"`
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	config.Database = *loadDatabaseConfig()

	config.Server = *loadServerConfig()
	config.Ops = OpsConfig{Port: getEnvOrDefault("OPS_PORT", "9090")}
	config.Upload = UploadConfig{MaxBytes: int64(getEnvIntOrDefault("UPLOAD_MAX_BYTES", 32<<20))}
	config.Session = SessionConfig{TTL: getEnvDurationOrDefault("SESSION_TTL", time.Hour)}
	config.Surface = SurfaceConfig{
		Width:  getEnvIntOrDefault("SURFACE_WIDTH", 800),
		Height: getEnvIntOrDefault("SURFACE_HEIGHT", 500),
	}
	config.Export = ExportConfig{MaxConcurrent: int64(getEnvIntOrDefault("EXPORT_MAX_CONCURRENT", 4))}
	config.Profiling = ProfilingConfig{Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false)}
	config.LogLevel = strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	driver := getEnvOrDefault("DATABASE_DRIVER", "postgres")
	url := os.Getenv("DATABASE_URL")
	if url == "" && driver == "sqlite3" {
		url = "file:gograph.db?_foreign_keys=on"
	}

	return &DatabaseConfig{
		Driver: driver,
		URL:    url,
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ConfigInvalid(fe.Namespace() + " failed '" + fe.Tag() + "' check")
		}
		return errors.ConfigInvalid(err.Error())
	}
	return nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
