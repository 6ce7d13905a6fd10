package main

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aulavid/aulavid/internal/api"
	"github.com/aulavid/aulavid/internal/session"
)

type config struct {
	Port           string
	BaseURL        string
	APIBaseURL     string
	SessionSecret  string
	SessionMaxAge  time.Duration
	APITimeout     time.Duration
	MaxUploadBytes int64
	GuardTimeout   time.Duration
	GeoIPDatabase  string
	TrustProxy     bool
	LogLevel       slog.Level
}

var (
	errMissingSessionSecret = errors.New("SESSION_SECRET is required")
	errNegativeUploadLimit  = errors.New("MAX_UPLOAD_BYTES must be zero (no limit) or positive")
)

// loadConfig reads the environment after loading the optional env files.
// Files never override variables that are already set.
func loadConfig(envFiles ...string) (config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := config{
		Port:           getEnv("PORT", "8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionMaxAge:  getEnvDuration("SESSION_MAX_AGE", session.DefaultMaxAge),
		APITimeout:     getEnvDuration("API_TIMEOUT", api.DefaultTimeout),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 500*1024*1024),
		GuardTimeout:   getEnvDuration("GUARD_TIMEOUT", 0),
		GeoIPDatabase:  os.Getenv("GEOIP_DB"),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
	if cfg.SessionSecret == "" {
		return config{}, errMissingSessionSecret
	}
	if cfg.MaxUploadBytes < 0 {
		return config{}, errNegativeUploadLimit
	}
	return cfg, nil
}

// mediaOrigin is the scheme and host of the API, which also serves
// thumbnails.
func (c config) mediaOrigin() string {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
