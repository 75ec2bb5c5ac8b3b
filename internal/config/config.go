package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "docportal-dev-session-secret"

type Config struct {
	// Server
	Port string
	Env  string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only safe behind a proxy that overwrites those headers.
	TrustProxy bool

	// Backend
	BackendURL     string
	BackendTimeout time.Duration

	// Session
	SessionSecret string

	// Redis (optional)
	RedisURL string

	// Limits
	MaxUploadBytes  int64
	ActionRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	env := getEnvOrDefault("ENV", "development")

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "3000"),
		Env:             env,
		TrustProxy:      getEnvAsBoolOrDefault("TRUST_PROXY", false),
		BackendURL:      strings.TrimRight(getEnvOrDefault("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout:  getEnvAsDurationOrDefault("BACKEND_TIMEOUT", 30*time.Second),
		RedisURL:        getEnvOrDefault("REDIS_URL", ""),
		MaxUploadBytes:  int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", 10*1024*1024)),
		ActionRateLimit: getEnvAsIntOrDefault("ACTION_RATE_LIMIT", 60),
	}

	if env == "production" {
		cfg.SessionSecret = mustGetEnv("SESSION_SECRET")
	} else {
		cfg.SessionSecret = getEnvOrDefault("SESSION_SECRET", devSessionSecret)
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvAsDurationOrDefault accepts Go durations ("45s") and bare seconds ("45").
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d >= 0 {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
