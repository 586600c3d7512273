package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	// Session auth
	JWTSecret     string
	SessionExpiry time.Duration

	// First-run admin seeding
	AdminEmail    string
	AdminPassword string

	// Upload gateway
	UploadDir     string
	UploadBaseURL string   // public base for stored files, e.g. http://localhost:3001/uploads
	TrustedHosts  []string // hosts whose image URLs the delete cascade may touch
	MaxUploadSize int64

	// Site settings file (hot-reloaded)
	SettingsFile string

	// Orphaned upload sweeper
	SweepInterval time.Duration
	SweepGrace    time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3001"),
		MongoURI: getEnv("MONGODB_URI", ""),
		MongoDB:  getEnv("MONGODB_DB", "portfolio"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionExpiry: getDurationEnv("SESSION_EXPIRY", 7*24*time.Hour),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UploadBaseURL: getEnv("UPLOAD_BASE_URL", "http://localhost:3001/uploads"),
		TrustedHosts:  splitList(getEnv("TRUSTED_UPLOAD_HOSTS", "localhost")),
		MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 4*1024*1024),

		SettingsFile: getEnv("SITE_SETTINGS_FILE", "site.yaml"),

		SweepInterval: getDurationEnv("UPLOAD_SWEEP_INTERVAL", 24*time.Hour),
		SweepGrace:    getDurationEnv("UPLOAD_SWEEP_GRACE", 24*time.Hour),
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
