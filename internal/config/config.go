package config

import (
	"os"
	"time"
)

// Config holds runtime settings, sourced from the environment with defaults
// suitable for local development.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string // bcrypt hash; plaintext passwords are never configured

	TemplateCacheTTL time.Duration
	StatsCacheTTL    time.Duration
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "danhgia"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnv("HTTP_PORT", "8080"),

		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		TemplateCacheTTL: getDuration("TEMPLATE_CACHE_TTL", 5*time.Minute),
		StatsCacheTTL:    getDuration("STATS_CACHE_TTL", time.Minute),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
