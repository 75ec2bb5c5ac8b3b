package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "DOCPORTAL_TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "DOCPORTAL_TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "DOCPORTAL_TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "DOCPORTAL_TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "DOCPORTAL_TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal bool
		expected   bool
	}{
		{"parses true", "DOCPORTAL_TEST_BOOL_1", "true", false, true},
		{"parses 0", "DOCPORTAL_TEST_BOOL_2", "0", true, false},
		{"uses default for empty", "DOCPORTAL_TEST_BOOL_3", "", true, true},
		{"uses default for garbage", "DOCPORTAL_TEST_BOOL_4", "yes please", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsBoolOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"go duration", "45s", 45 * time.Second},
		{"bare seconds", "12", 12 * time.Second},
		{"zero disables", "0", 0},
		{"negative falls back", "-5s", 30 * time.Second},
		{"garbage falls back", "soon", 30 * time.Second},
		{"empty falls back", "", 30 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DOCPORTAL_TEST_DURATION", tc.envValue)

			result := getEnvAsDurationOrDefault("DOCPORTAL_TEST_DURATION", 30*time.Second)
			if result != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	t.Setenv("TEST_REQUIRED", "value123")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "BACKEND_URL", "BACKEND_TIMEOUT", "SESSION_SECRET", "REDIS_URL", "MAX_UPLOAD_BYTES", "ACTION_RATE_LIMIT", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got %q", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Errorf("Expected default backend URL, got %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.BackendTimeout)
	}
	if cfg.SessionSecret != devSessionSecret {
		t.Errorf("Expected development session secret, got %q", cfg.SessionSecret)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("Expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RedisURL != "" {
		t.Errorf("Expected empty Redis URL, got %q", cfg.RedisURL)
	}
	if cfg.TrustProxy {
		t.Error("Expected forwarded headers to be ignored by default")
	}
}

func TestLoad_TrimsBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://docs.example.com/")

	cfg := Load()

	if cfg.BackendURL != "https://docs.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.BackendURL)
	}
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when SESSION_SECRET is missing in production")
		}
	}()

	Load()
}
