package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetEnvReturnsValueWhenSet(t *testing.T) {
	t.Setenv("TEST_GETENV_SET", "custom-value")

	if got := getEnv("TEST_GETENV_SET", "fallback"); got != "custom-value" {
		t.Errorf("expected %q, got %q", "custom-value", got)
	}
}

func TestGetEnvReturnsFallbackWhenEmpty(t *testing.T) {
	t.Setenv("TEST_GETENV_EMPTY", "")

	if got := getEnv("TEST_GETENV_EMPTY", "default-value"); got != "default-value" {
		t.Errorf("expected fallback for empty env var, got %q", got)
	}
}

func TestGetEnvInt64(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"", 42},
		{"1024", 1024},
		{"not-a-number", 42},
	}
	for _, tc := range tests {
		t.Setenv("TEST_GETENV_INT", tc.value)
		if got := getEnvInt64("TEST_GETENV_INT", 42); got != tc.want {
			t.Errorf("value %q: expected %d, got %d", tc.value, tc.want, got)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"90s", 90 * time.Second},
		{"720h", 720 * time.Hour},
		{"soon", time.Minute},
	}
	for _, tc := range tests {
		t.Setenv("TEST_GETENV_DURATION", tc.value)
		if got := getEnvDuration("TEST_GETENV_DURATION", time.Minute); got != tc.want {
			t.Errorf("value %q: expected %v, got %v", tc.value, tc.want, got)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"true", true},
		{"1", true},
		{"false", false},
		{"maybe", false},
	}
	for _, tc := range tests {
		t.Setenv("TEST_GETENV_BOOL", tc.value)
		if got := getEnvBool("TEST_GETENV_BOOL", false); got != tc.want {
			t.Errorf("value %q: expected %v, got %v", tc.value, tc.want, got)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := loadConfig()
	if !errors.Is(err, errMissingSessionSecret) {
		t.Errorf("expected errMissingSessionSecret, got %v", err)
	}
}

func TestLoadConfigRejectsNegativeUploadLimit(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")

	_, err := loadConfig()
	if !errors.Is(err, errNegativeUploadLimit) {
		t.Errorf("expected errNegativeUploadLimit, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("GUARD_TIMEOUT", "")
	t.Setenv("TRUST_PROXY", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("expected default API base URL, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionMaxAge != 30*24*time.Hour {
		t.Errorf("expected 30 day session, got %v", cfg.SessionMaxAge)
	}
	if cfg.GuardTimeout != 0 {
		t.Errorf("expected no guard timeout by default, got %v", cfg.GuardTimeout)
	}
	if cfg.TrustProxy {
		t.Error("expected forwarding headers to be untrusted by default")
	}
}

func TestLoadConfigReadsEnvFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SESSION_SECRET=from-file\nAPI_BASE_URL=https://api.example.com/v1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// Set then unset so the env file can fill it and cleanup still restores it.
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	t.Setenv("API_BASE_URL", "https://api.override.test")

	cfg, err := loadConfig(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SessionSecret != "from-file" {
		t.Errorf("expected secret from env file, got %q", cfg.SessionSecret)
	}
	if cfg.APIBaseURL != "https://api.override.test" {
		t.Errorf("expected environment to win over env file, got %q", cfg.APIBaseURL)
	}
	if got := cfg.mediaOrigin(); got != "https://api.override.test" {
		t.Errorf("expected media origin from API URL, got %q", got)
	}
}

func TestMediaOrigin(t *testing.T) {
	tests := map[string]string{
		"https://api.example.com/v1/": "https://api.example.com",
		"http://localhost:8000":       "http://localhost:8000",
		"not a url":                   "",
	}
	for in, want := range tests {
		if got := (config{APIBaseURL: in}).mediaOrigin(); got != want {
			t.Errorf("mediaOrigin(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "aulavid dev") {
		t.Errorf("unexpected version output %q", out.String())
	}
}
