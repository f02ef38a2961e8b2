package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// StoreMongo keeps client configurations in a MongoDB collection.
	StoreMongo = "mongo"
	// StorePostgres keeps client configurations as JSONB rows in PostgreSQL.
	StorePostgres = "postgres"

	// ProviderAWS provisions buckets through the AWS SDK.
	ProviderAWS = "aws"
	// ProviderMinIO provisions buckets on an S3-compatible endpoint through minio-go.
	ProviderMinIO = "minio"

	// DefaultJWTSecret is only meant for local development.
	DefaultJWTSecret = "dev-secret-key-change-in-production"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
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

// MongoConfig holds the admin MongoDB settings.
type MongoConfig struct {
	URI                      string
	AdminDBName              string
	Collection               string
	ServerSelectionTimeoutMS int
}

// S3Config holds object storage settings used to provision per-client buckets.
// Endpoint is only needed for S3-compatible stores (MinIO, LocalStack).
type S3Config struct {
	Provider  string
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	UseSSL    bool
}

// AgentConfig holds the defaults written into every new client document.
type AgentConfig struct {
	LLMModel         string
	LLMTemperature   float64
	PreprocessorURL  string
	PostprocessorURL string
}

// AuthConfig holds Google token validation and JWT issuing settings.
type AuthConfig struct {
	GoogleClientID    string
	JWTSecretKey      string
	JWTAlgorithm      string
	JWTExpirationMins int
	JWTIssuer         string
	Required          bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Environment        string
	Port               string
	ShutdownTimeoutSec int
	StoreDriver        string
	Database           DatabaseConfig
	Mongo              MongoConfig
	S3                 S3Config
	Agent              AgentConfig
	Auth               AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
// A set but malformed numeric or boolean value is an error rather than a silent default.
func Load() (*AppConfig, error) {
	env := &envReader{}
	cfg := &AppConfig{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		ShutdownTimeoutSec: env.Int("SHUTDOWN_TIMEOUT_SEC", 10),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       env.Int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       env.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: env.Int("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:                      getEnv("MONGODB_URI", ""),
			AdminDBName:              getEnv("ADMIN_DB_NAME", "widget"),
			Collection:               getEnv("CLIENTS_COLLECTION", "client_configs"),
			ServerSelectionTimeoutMS: env.Int("MONGODB_SERVER_SELECTION_TIMEOUT_MS", 5000),
		},
		S3: S3Config{
			Provider:  strings.ToLower(getEnv("S3_PROVIDER", ProviderAWS)),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Region:    getEnv("AWS_REGION", "ap-south-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			UseSSL:    env.Bool("S3_USE_SSL", true),
		},
		Agent: AgentConfig{
			LLMModel:         getEnv("LLM_MODEL", "gemini-live-2.5-flash-preview-native-audio-09-2025"),
			LLMTemperature:   env.Float("LLM_TEMPERATURE", 0.1),
			PreprocessorURL:  getEnv("PREPROCESSOR_URL", "http://localhost:8080"),
			PostprocessorURL: getEnv("POSTPROCESSOR_URL", "http://localhost:8003"),
		},
		Auth: AuthConfig{
			GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),
			JWTSecretKey:      getEnv("JWT_SECRET_KEY", DefaultJWTSecret),
			JWTAlgorithm:      getEnv("JWT_ALGORITHM", "HS256"),
			JWTExpirationMins: env.Int("JWT_EXPIRATION_MINUTES", 1440),
			JWTIssuer:         getEnv("JWT_ISSUER", ""),
			Required:          env.Bool("AUTH_REQUIRED", false),
		},
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envReader parses typed variables and remembers every value it had to reject.
type envReader struct {
	errs []error
}

func (r *envReader) Bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.reject(key, v, "boolean")
		return def
	}
	return b
}

func (r *envReader) Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.reject(key, v, "integer")
		return def
	}
	return i
}

func (r *envReader) Float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		r.reject(key, v, "number")
		return def
	}
	return f
}

func (r *envReader) reject(key, value, kind string) {
	r.errs = append(r.errs, fmt.Errorf("%s: %q is not a valid %s", key, value, kind))
}

// Err joins every rejected value, or returns nil.
func (r *envReader) Err() error {
	return errors.Join(r.errs...)
}
