package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SummarizerConfig points at the external summarization service. The service
// is an opaque collaborator; only its /upload/ and /download_summary/ shapes
// are contract.
type SummarizerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// MinIOConfig holds object storage settings for archiving raw uploads.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is populated from environment variables; secrets are never
// hardcoded. A .env file can be loaded up front with godotenv.
type AppConfig struct {
	Port           string
	JWTSecret      string
	AllowedOrigins []string
	GuestUploader  string
	RedisAddr      string
	KafkaBroker    string
	Database       DatabaseConfig
	Summarizer     SummarizerConfig
	MinIO          MinIOConfig
}

// Load reads configuration from environment variables. Real environment
// variables take precedence over any .env file loaded earlier.
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "3000"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),
		GuestUploader:  getEnv("GUEST_UPLOADER", "guest"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:    getEnv("KAFKA_BROKER", ""),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Summarizer: SummarizerConfig{
			BaseURL: getEnv("SUMMARIZER_URL", "http://localhost:8000"),
			Timeout: time.Duration(getEnvInt("SUMMARIZER_TIMEOUT_SEC", 120)) * time.Second,
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "documents-raw"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
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

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
