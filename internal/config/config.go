package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	// DefaultBaseURL is the origin used to resolve image URLs when no inbound
	// request is available (e.g. background workers).
	DefaultBaseURL string

	DB     DatabaseConfig
	Redis  RedisConfig
	Images ImagesConfig
	Worker WorkerConfig

	// UploadLimitPerMinute caps multipart update requests per client IP.
	UploadLimitPerMinute int
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ImagesConfig contains filesystem locations for stored SKU images.
type ImagesConfig struct {
	// ContentRoot is the directory served as the web root. Image files live
	// under <ContentRoot>/images/skumasters and database rows store the
	// matching root-relative path.
	ContentRoot string
}

// SkuMastersDir returns the on-disk directory holding SKU master image files.
func (c *ImagesConfig) SkuMastersDir() string {
	return filepath.Join(c.ContentRoot, "images", "skumasters")
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	OrphanSweepInterval time.Duration
	OrphanGracePeriod   time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.DefaultBaseURL = getEnv("DEFAULT_BASE_URL", "https://localhost:7071")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Images
	cfg.Images = ImagesConfig{
		ContentRoot: getEnv("CONTENT_ROOT", "wwwroot"),
	}

	cfg.UploadLimitPerMinute = getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 30)

	// Workers (durations)
	var err error
	if cfg.Worker.OrphanSweepInterval, err = parseDurationEnv("ORPHAN_SWEEP_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_SWEEP_INTERVAL: %w", err)
	}
	if cfg.Worker.OrphanGracePeriod, err = parseDurationEnv("ORPHAN_GRACE_PERIOD", "1h"); err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_GRACE_PERIOD: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
