package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Server
	Port        string
	AppEnv      string
	CORSOrigins string
	StaticDir   string

	// Uploads
	UploadDir         string
	AllowedExtensions []string
	MaxUploadBytes    int

	// Image store: "local" writes to UploadDir, "s3" to an S3 compatible bucket
	ImageStore  string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	// Google sign-in
	ClientSecretPath string

	// Sessions
	SessionExpiry       time.Duration
	SessionCookieSecure bool

	// Observability
	SentryDSN    string
	LogRetention time.Duration
}

func Load() *Config {
	return &Config{
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "catalog"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		Port:        getEnv("PORT", "8000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		StaticDir:   getEnv("STATIC_DIR", "static"),

		UploadDir:         getEnv("UPLOAD_DIR", "static/images"),
		AllowedExtensions: parseList(getEnv("ALLOWED_EXTENSIONS", "png,jpg")),
		MaxUploadBytes:    parseInt(getEnv("MAX_UPLOAD_MB", "5"), 5) * 1024 * 1024,

		ImageStore:  getEnv("IMAGE_STORE", "local"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", "catalog-images"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		ClientSecretPath: getEnv("CLIENT_SECRET_PATH", "client_secret.json"),

		SessionExpiry:       parseDuration(getEnv("SESSION_EXPIRY", "24h"), 24*time.Hour),
		SessionCookieSecure: getEnv("SESSION_COOKIE_SECURE", "false") == "true",

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
	}
}

// DSN returns the connection string for the configured driver. DATABASE_URL
// wins when set; otherwise sqlite falls back to catalog.db and postgres is
// assembled from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == "sqlite" {
		return "catalog.db"
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), ".")))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
