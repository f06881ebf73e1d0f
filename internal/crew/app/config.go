package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	RequestTimeout      time.Duration // Bound on every request context (default: 15s, 0 disables)

	DatabaseFile      string // Optional: path to SQLite database file (default: ./crew.db)
	PermissionCatalog string // Optional: YAML file replacing the embedded permission catalog

	JWTSecret      string        // Optional: HS256 session secret, at least 32 bytes (default: random per process)
	JWTIssuer      string        // Optional: session token issuer (default: crew)
	SessionTTL     time.Duration // Optional: session token lifetime (default: 15m)
	PasswordPepper string        // Optional: pepper appended to passwords before hashing

	OIDCIssuer   string // Optional: ID token issuer (default: Google)
	OIDCClientID string // Optional: enables ID token sign-in when set

	RedisAddr string // Optional: publishes join notifications when set

	SMTPHost      string // Optional: operator email is only logged when unset
	SMTPPort      int    // Optional: (default: 587)
	SMTPUser      string
	SMTPPass      string
	MailFrom      string // Optional: (default: no-reply@crew.local)
	OperatorEmail string // Optional: activation request recipient

	HousekeepingSchedule string        // Optional: cron expression (default: @hourly)
	MigrationWorkers     int           // Optional: organizations migrated at once (default: 1)
	NotificationTTL      time.Duration // Optional: join notification lifetime (default: 7 days)
}

func LoadConfig() Config {
	return Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		RequestTimeout:      getEnvDurationOrDefault("CREW_REQUEST_TIMEOUT", 15*time.Second),

		DatabaseFile:      getEnvOrDefault("CREW_DATABASE_FILE", "crew.db"),
		PermissionCatalog: os.Getenv("CREW_PERMISSION_CATALOG"),

		JWTSecret:      os.Getenv("CREW_JWT_SECRET"),
		JWTIssuer:      getEnvOrDefault("CREW_JWT_ISSUER", "crew"),
		SessionTTL:     getEnvDurationOrDefault("CREW_SESSION_TTL", 15*time.Minute),
		PasswordPepper: os.Getenv("CREW_PASSWORD_PEPPER"),

		OIDCIssuer:   getEnvOrDefault("CREW_OIDC_ISSUER", "https://accounts.google.com"),
		OIDCClientID: os.Getenv("CREW_OIDC_CLIENT_ID"),

		RedisAddr: os.Getenv("CREW_REDIS_ADDR"),

		SMTPHost:      os.Getenv("CREW_SMTP_HOST"),
		SMTPPort:      getEnvIntOrDefault("CREW_SMTP_PORT", 587),
		SMTPUser:      os.Getenv("CREW_SMTP_USER"),
		SMTPPass:      os.Getenv("CREW_SMTP_PASS"),
		MailFrom:      getEnvOrDefault("CREW_MAIL_FROM", "no-reply@crew.local"),
		OperatorEmail: os.Getenv("CREW_OPERATOR_EMAIL"),

		HousekeepingSchedule: getEnvOrDefault("CREW_HOUSEKEEPING_SCHEDULE", "@hourly"),
		MigrationWorkers:     getEnvIntOrDefault("CREW_MIGRATION_WORKERS", 1),
		NotificationTTL:      getEnvDurationOrDefault("CREW_NOTIFICATION_TTL", 7*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
