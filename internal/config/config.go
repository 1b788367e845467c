// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultCoachTemperature applies when COACH_TEMPERATURE is unset. An
// explicit 0 is kept.
const defaultCoachTemperature = "0.7"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// SecureCookies sets the Secure flag on session and CSRF cookies.
	// Defaults to true in production.
	SecureCookies bool

	// CORSOrigins lists the web app origins allowed to call the API.
	CORSOrigins []string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// AI coach
	GeminiKey        string
	GeminiModel      string
	CoachTemperature float32
	CoachHistoryTTL  time.Duration

	// Rate limits, requests per minute per caller
	RateLimitCoach int
	RateLimitAuth  int

	// S3-compatible object storage (optional)
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first; variables already set in the environment win. Returns an
// error if a value is malformed or critical values are missing in
// production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "diabolohub"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "diabolohub"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel: envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "diabolohub-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "diabolohub-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),
	}

	var err error
	if cfg.ValkeyDB, err = envInt("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitCoach, err = envInt("RATE_LIMIT_COACH", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitAuth, err = envInt("RATE_LIMIT_AUTH", 10); err != nil {
		return nil, err
	}
	if cfg.CoachHistoryTTL, err = envDuration("COACH_HISTORY_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	temp, err := strconv.ParseFloat(envOrDefault("COACH_TEMPERATURE", defaultCoachTemperature), 32)
	if err != nil || temp < 0 || temp > 2 {
		return nil, fmt.Errorf("COACH_TEMPERATURE must be a number between 0 and 2")
	}
	cfg.CoachTemperature = float32(temp)

	secure, err := strconv.ParseBool(envOrDefault("COOKIE_SECURE", strconv.FormatBool(cfg.Env == "production")))
	if err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE must be true or false")
	}
	cfg.SecureCookies = secure

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if !cfg.SecureCookies {
			return nil, fmt.Errorf("COOKIE_SECURE cannot be disabled in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StorageEnabled reports whether an S3 endpoint and credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 30m", key)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
