package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

var (
	ServerPort     string
	JwtSecret      string
	Issuer         string
	AllowedOrigins []string
	IsProduction   bool

	SessionTTL     time.Duration
	SessionBackend string
	SessionSecret  string

	DbDriver   string
	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	DbPath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BackendURL           string
	BackendTimeout       time.Duration
	ActionTimeout        time.Duration
	ApplicationsPageSize int
	PaymentQueuePageSize int
	NotificationBuffer   int

	MinioEnabled    bool
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioUseSSL     bool
	MinioBucket     string
	MinioRegion     string
	DocumentLinkTTL time.Duration

	ReviewLogRetentionDays int

	LogLevel  string
	LogFormat string
)

// Session backends.
const (
	SessionBackendMemory   = "memory"
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
)

// fileConfig mirrors the optional YAML file. Keys are the environment
// variable names so one file can be shared with docker-compose env files.
type fileConfig map[string]string

var fileValues fileConfig

// LoadConfig fills the package variables from, in increasing priority:
// built-in defaults, the YAML file named by CONFIG_FILE, and the environment
// (including a .env file in the working directory).
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	fileValues = nil
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := loadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Ignoring config file")
		} else {
			fileValues = values
		}
	}

	ServerPort = getEnv("SERVER_PORT", "8080")
	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("ISSUER", "admission-portal")
	AllowedOrigins = getList("ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	IsProduction = getEnv("APP_ENV", "development") == "production"

	SessionTTL = getDuration("SESSION_TTL", 12*time.Hour)
	SessionBackend = getEnv("SESSION_BACKEND", SessionBackendDatabase)
	SessionSecret = getEnv("SESSION_SECRET", JwtSecret)

	DbDriver = getEnv("DB_DRIVER", "postgres")
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "admission_portal")
	DbPath = getEnv("DB_PATH", "admission-portal.db")

	RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	RedisDB = getInt("REDIS_DB", 0)

	BackendURL = strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:7000"), "/")
	BackendTimeout = getDuration("BACKEND_TIMEOUT", 15*time.Second)
	ActionTimeout = getDuration("ACTION_TIMEOUT", 20*time.Second)
	ApplicationsPageSize = getInt("APPLICATIONS_PAGE_SIZE", 50)
	PaymentQueuePageSize = getInt("PAYMENT_QUEUE_PAGE_SIZE", 100)
	NotificationBuffer = getInt("NOTIFICATION_BUFFER", 50)

	MinioEnabled = getBool("MINIO_ENABLED", false)
	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minio")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minio123")
	MinioUseSSL = getBool("MINIO_USE_SSL", false)
	MinioBucket = getEnv("MINIO_BUCKET", "admission-documents")
	MinioRegion = getEnv("MINIO_REGION", "us-east-1")
	DocumentLinkTTL = getDuration("DOCUMENT_LINK_TTL", 15*time.Minute)

	ReviewLogRetentionDays = getInt("REVIEW_LOG_RETENTION_DAYS", 180)

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")
}

func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var values fileConfig
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return values, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if value, ok := fileValues[key]; ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid integer, using default")
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid boolean, using default")
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid duration, using default")
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
