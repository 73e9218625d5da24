package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store backends selectable via SESSION_BACKEND.
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
	SessionBackendMemory   = "memory"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionBackend string
	SessionTTL     time.Duration
	CookieSecure   bool

	ResetTokenSecret string
	ResetTokenTTL    time.Duration
	// ReturnResetToken echoes reset tokens in the HTTP response instead of
	// emailing them. Development convenience only; never enable in production.
	ReturnResetToken bool

	SMTPHost     string
	SMTPPort     string
	SMTPEmail    string
	SMTPPassword string
	AdminEmail   string

	CORSOrigins []string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/crimetracker?charset=utf8mb4&parseTime=True&loc=Local"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendDatabase),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 30*24)) * time.Hour,
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),

		ResetTokenSecret: getEnv("RESET_TOKEN_SECRET", "change-me"),
		ResetTokenTTL:    time.Duration(getEnvInt("RESET_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		ReturnResetToken: getEnvBool("RETURN_RESET_TOKEN", false),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
