package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	BucketName            string
	GoogleCredentialsPath string
	GoogleCredentialsJSON string // For serverless: raw JSON string
	PostsObject           string // Object key of the posts document
	SubscribersObject     string // Object key of the subscribers document
	SignedUploadTTL       time.Duration
	AllowedOrigins        []string
	RateLimitRPS          float64
	RateLimitBurst        int
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	SMTPFrom              string
	IsVercel              bool // Detected via VERCEL env var
}

// Load reads configuration from environment variables and .env file.
// It loads the .env file if present, then populates the Config struct.
// Returns an error if required configuration is missing.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		BucketName:            getEnv("GCS_BUCKET", ""),
		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		PostsObject:           getEnv("POSTS_OBJECT", "db.json"),
		SubscribersObject:     getEnv("SUBSCRIBERS_OBJECT", "subscribers.json"),
		SignedUploadTTL:       getDurationEnv("SIGNED_UPLOAD_TTL", 15*time.Minute),
		AllowedOrigins:        getList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:          getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:        getIntEnv("RATE_LIMIT_BURST", 20),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              getIntEnv("SMTP_PORT", 587),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:              getEnv("SMTP_FROM", ""),
		IsVercel:              getEnv("VERCEL", "") != "",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
// Credentials may be omitted entirely, in which case the storage client
// falls back to Application Default Credentials.
func (c *Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("GCS_BUCKET is required")
	}
	if c.PostsObject == "" {
		return fmt.Errorf("POSTS_OBJECT is required")
	}
	if c.SubscribersObject == "" {
		return fmt.Errorf("SUBSCRIBERS_OBJECT is required")
	}
	if c.SignedUploadTTL <= 0 {
		return fmt.Errorf("SIGNED_UPLOAD_TTL must be positive")
	}
	return nil
}

// SMTPConfigured reports whether mail credentials are complete enough
// to dial the submission server. When false, notifications are
// disabled (logged, non-fatal).
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.SMTPFrom != ""
}

// Retrieves an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// Retrieves a duration from environment variable or returns a default value.
// It supports both time.Duration format (e.g., "10m", "12h") and integer minutes.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

// Retrieves a comma-separated list from environment variable or returns a default value.
func getList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// Retrieves an integer from environment variable or returns a default value.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Retrieves a float from environment variable or returns a default value.
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
