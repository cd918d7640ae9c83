package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageSQL    = "sql"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string
	LogLevel       string
	FrontendURL    string

	StorageBackend string
	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	SQLitePath     string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string
	S3UsePathStyle    bool
	S3PartSizeMB      int64
	LocalMediaDir     string
	MaxUploadMB       int64

	SessionSecret string
	JWTSecret     string
	JWTTTL        time.Duration

	ReplitDomains string
	ReplID        string
	IssuerURL     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RateLimitComment time.Duration
	SeedDemo         bool
	ReindexSchedule  string
}

func Load() (*Config, error) {
	// .env is optional; production injects real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageSQL)),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPass:         os.Getenv("DB_PASS"),
		DBName:         getEnv("DB_NAME", "vidspace"),
		SQLitePath:     getEnv("SQLITE_PATH", "vidspace.db"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "vidspace"),

		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicURL:       os.Getenv("S3_PUBLIC_URL"),
		LocalMediaDir:     getEnv("LOCAL_MEDIA_DIR", "./media"),

		SessionSecret: getEnv("SESSION_SECRET", "change-me"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),

		ReplitDomains: os.Getenv("REPLIT_DOMAINS"),
		ReplID:        os.Getenv("REPL_ID"),
		IssuerURL:     getEnv("ISSUER_URL", "https://replit.com/oidc"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/callback"),

		ReindexSchedule: getEnv("SEARCH_REINDEX_CRON", "0 */6 * * *"),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.RateLimitComment, err = time.ParseDuration(getEnv("RATE_LIMIT_COMMENT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COMMENT: %w", err)
	}
	if cfg.S3UsePathStyle, err = strconv.ParseBool(getEnv("S3_USE_PATH_STYLE", "false")); err != nil {
		return nil, fmt.Errorf("invalid S3_USE_PATH_STYLE: %w", err)
	}
	if cfg.SeedDemo, err = strconv.ParseBool(getEnv("SEED_DEMO", "false")); err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO: %w", err)
	}
	if cfg.S3PartSizeMB, err = strconv.ParseInt(getEnv("S3_PART_SIZE_MB", "16"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid S3_PART_SIZE_MB: %w", err)
	}
	if cfg.MaxUploadMB, err = strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "512"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageMemory, StorageSQL:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: want %q or %q", c.StorageBackend, StorageMemory, StorageSQL)
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want %q or %q", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	if c.IsProduction() && (c.SessionSecret == "change-me" || c.JWTSecret == "change-me") {
		return fmt.Errorf("SESSION_SECRET and JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PostgresDSN prefers DATABASE_URL and falls back to the DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
