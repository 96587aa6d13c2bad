package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	BaseURL     string // public URL of this API
	FrontendURL string // public URL of the site frontend (email links, redirects)

	// Database
	DatabaseURL string

	// Session
	SessionSecret string // used for cookie encryption (min 32 chars)
	RedisURL      string // session storage; empty falls back to in-memory

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Bootstrap admins: comma-separated emails granted admin on first login
	AdminEmails []string

	// CORS
	CORSOrigins string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "none", "tls", "starttls"

	// Object storage for uploaded/imported images
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3PublicURL string // base URL images are served from

	// Site branding used in email templates
	SiteTitle string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3001"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/stively?sslmode=disable"),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		RedisURL:      getEnv("REDIS_URL", ""),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Stively Team"),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "stively-uploads"),
		S3UseSSL:    getEnv("S3_USE_SSL", "true") == "true",
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		SiteTitle: getEnv("SITE_TITLE", "Stively"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsStorageEnabled returns true if object storage is configured.
func (c *Config) IsStorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != ""
}

// IsBootstrapAdmin reports whether an email is on the bootstrap admin list.
func (c *Config) IsBootstrapAdmin(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
