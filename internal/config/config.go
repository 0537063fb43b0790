package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// Server
	ApiPort string

	// Store
	StorePath string // Empty means in-memory (data lost on exit)

	// Redis / background tasks
	RedisAddr     string // Empty disables background tasks
	RedisPassword string
	RedisDB       int

	// Optional remote mirror
	RemoteBaseURL string // Empty disables mirroring

	// Engine behaviour
	AllowMultipleAcceptances bool
	NotifyPollInterval       time.Duration
	IntegritySweepInterval   time.Duration
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}
	getEnvInt := func(key string, defaultValue int) int {
		if value, exists := os.LookupEnv(key); exists {
			if n, err := strconv.Atoi(value); err == nil {
				return n
			}
		}
		return defaultValue
	}
	getEnvBool := func(key string, defaultValue bool) bool {
		if value, exists := os.LookupEnv(key); exists {
			if b, err := strconv.ParseBool(value); err == nil {
				return b
			}
		}
		return defaultValue
	}
	getEnvDuration := func(key string, defaultValue time.Duration) time.Duration {
		if value, exists := os.LookupEnv(key); exists {
			if d, err := time.ParseDuration(value); err == nil {
				return d
			}
		}
		return defaultValue
	}

	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.StorePath = getEnv("STORE_PATH", "./data/aqariai.db")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RemoteBaseURL = getEnv("REMOTE_BASE_URL", "")
	cfg.AllowMultipleAcceptances = getEnvBool("ALLOW_MULTIPLE_ACCEPTANCES", false)
	cfg.NotifyPollInterval = getEnvDuration("NOTIFY_POLL_INTERVAL", 5*time.Second)
	cfg.IntegritySweepInterval = getEnvDuration("INTEGRITY_SWEEP_INTERVAL", 10*time.Minute)

	return cfg, nil
}
