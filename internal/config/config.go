package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	ServerPort  string
	Environment string

	// Session tokens
	JWTSecret     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration

	// Account activation
	ActivationSecret   string
	ActivationExpiry   time.Duration
	ActivationBaseURL  string
	FrontendSuccessURL string
	FrontendErrorURL   string

	// Outbound mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	CORSOrigin   string
	AuditLogPath string

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitBlockTime   time.Duration
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (Docker containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	auditPath := os.Getenv("AUDIT_LOG_PATH")
	if auditPath == "" {
		auditPath = "data/account_events.log"
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ServerPort:  os.Getenv("SERVER_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AccessExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", "15m"),
		RefreshExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", "168h"),

		ActivationSecret:   getEnv("ACTIVATION_SECRET", os.Getenv("JWT_SECRET")),
		ActivationExpiry:   getEnvAsDuration("ACTIVATION_TOKEN_EXPIRY", "72h"),
		ActivationBaseURL:  getEnv("ACTIVATION_BASE_URL", "http://localhost:8080"),
		FrontendSuccessURL: getEnv("FRONTEND_SUCCESS_URL", "http://localhost:3000/auth/login-1"),
		FrontendErrorURL:   getEnv("FRONTEND_ERROR_URL", "http://localhost:3000/auth/error"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),

		CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:3000"),
		AuditLogPath: auditPath,

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitBlockTime:   getEnvAsDuration("RATE_LIMIT_BLOCK_TIME", "5m"),
	}

	return cfg
}

// getEnv retrieves environment variable with a fallback value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
