package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	PORT            string
	DB_URL          string
	JWT_SECRET      string
	PUBLIC_BASE_URL string
	CORS_ORIGIN     string
	COOKIE_SECURE   bool
	LOG_LEVEL       string

	// Public static tree. Uploads land under PUBLIC_DIR/uploads when STORAGE_TYPE=filesystem.
	PUBLIC_DIR    string
	DOWNLOADS_DIR string
	WATERMARK_DIR string
	TEMP_DIR      string

	STORAGE_TYPE  string
	S3_ENDPOINT   string
	S3_REGION     string
	S3_BUCKET     string
	S3_KEY_ID     string
	S3_ACCESS_KEY string
	S3_PUBLIC_URL string
	S3_TIMEOUT    time.Duration

	SMTP_HOST      string
	SMTP_PORT      string
	SMTP_USERNAME  string
	SMTP_PASSWORD  string
	SMTP_FROM      string
	SMTP_FROM_NAME string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	ADMIN_USERNAME string
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	PUBLIC_BASE_URL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")
	COOKIE_SECURE = getEnv("COOKIE_SECURE", "false") == "true"
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	PUBLIC_DIR = getEnv("PUBLIC_DIR", "public")
	DOWNLOADS_DIR = getEnv("DOWNLOADS_DIR", PUBLIC_DIR+"/downloads")
	WATERMARK_DIR = getEnv("WATERMARK_DIR", PUBLIC_DIR+"/watermarks")
	TEMP_DIR = getEnv("TEMP_DIR", PUBLIC_DIR+"/temp")

	STORAGE_TYPE = getEnv("STORAGE_TYPE", "filesystem")
	S3_ENDPOINT = getEnv("S3_ENDPOINT", "")
	S3_REGION = getEnv("S3_REGION", "")
	S3_BUCKET = getEnv("S3_BUCKET", "")
	S3_KEY_ID = getEnv("S3_KEY_ID", "")
	S3_ACCESS_KEY = getEnv("S3_ACCESS_KEY", "")
	S3_PUBLIC_URL = strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/")
	S3_TIMEOUT = getDuration("S3_TIMEOUT", 30*time.Second)

	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_USERNAME = getEnv("SMTP_USERNAME", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	SMTP_FROM = getEnv("SMTP_FROM", SMTP_USERNAME)
	SMTP_FROM_NAME = getEnv("SMTP_FROM_NAME", "Seratus Studio")

	// Google sign-in is optional; handlers are only mounted when the client id is present.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	ADMIN_USERNAME = getEnv("ADMIN_USERNAME", "")
	ADMIN_EMAIL = getEnv("ADMIN_EMAIL", "")
	ADMIN_PASSWORD = getEnv("ADMIN_PASSWORD", "")
}

func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Msgf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return d
}
