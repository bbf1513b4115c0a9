// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env files tried in order; the first one that loads wins.
var envFiles = []string{".env.local", ".env"}

// Config holds all runtime configuration for the uploader.
type Config struct {
	ResultsDir  string
	Concurrency int
	LogLevel    string

	// EnvSource is the env file that was loaded, or "" when only the
	// process environment was used.
	EnvSource string

	// Object storage (S3-compatible: MinIO locally, AWS S3 with BLOB_DRIVER=s3)
	BlobDriver        string
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/results"

	PushgatewayURL string
}

// Load reads configuration from .env.local or .env (if present) and
// environment variables. A missing env file is not an error.
func Load() *Config {
	source := loadEnvFile()

	return &Config{
		ResultsDir:  getEnv("RESULTS_DIR", "./results"),
		Concurrency: getEnvInt("UPLOAD_CONCURRENCY", 1),
		LogLevel:    getEnv("LOG_LEVEL", "warn"),
		EnvSource:   source,

		BlobDriver:        getEnv("BLOB_DRIVER", "minio"),
		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "results"),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "false") == "true",
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", "http://localhost:9000/results"),

		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
	}
}

func loadEnvFile() string {
	for _, name := range envFiles {
		if err := godotenv.Load(name); err == nil {
			return name
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
