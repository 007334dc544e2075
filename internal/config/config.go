package config

import (
	"os"
	"strconv"
	"time"
)

// RepositoryConfig selects and configures the storage backend.
type RepositoryConfig struct {
	// Kind is the raw REPOSITORY value: "db", "file", anything else means memory.
	Kind     string
	FilePath string
	// Watch reloads the file backend when another process replaces the document.
	Watch bool
	Seed  bool
}

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, is used as is and the discrete fields only tune the pool.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// ArchiveConfig holds S3-compatible object storage settings for snapshot archiving.
// Archiving is disabled when Endpoint is empty.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c ArchiveConfig) Enabled() bool { return c.Endpoint != "" }

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port       string
	LogLevel   string
	Repository RepositoryConfig
	Database   DatabaseConfig
	Archive    ArchiveConfig
	Auth       AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Repository: RepositoryConfig{
			Kind:     getEnv("REPOSITORY", "memory"),
			FilePath: getEnv("REPOSITORY_FILE", "data.json"),
			Watch:    getEnvBool("REPOSITORY_FILE_WATCH", false),
			Seed:     getEnvBool("REPOSITORY_SEED", true),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Archive: ArchiveConfig{
			Endpoint:  getEnv("ARCHIVE_ENDPOINT", ""),
			AccessKey: getEnv("ARCHIVE_ACCESS_KEY", ""),
			SecretKey: getEnv("ARCHIVE_SECRET_KEY", ""),
			Bucket:    getEnv("ARCHIVE_BUCKET", ""),
			UseSSL:    getEnvBool("ARCHIVE_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET_KEY", ""),
			TokenTTL:  getEnvDuration("JWT_ACCESS_TOKEN_EXPIRES", time.Hour),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("90m") or a plain number of seconds ("3600").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
