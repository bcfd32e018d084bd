package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env string

	DatasetDir  string
	CatalogFile string
	HTTPAddr    string
	LogLevel    string

	ScorerWorkers     int
	NegativeThreshold float64

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	ScoreCacheTTL  time.Duration

	StoreDriver string
	SQLitePath  string
	DynamoTable string
	AWSRegion   string
	AWSEndpoint string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	OpenSearchEndpoint string
	OpenSearchUsername string
	OpenSearchPassword string
	OpenSearchIndex    string
	OpenSearchSigV4    bool
}

const (
	STORE_NONE       = "none"
	STORE_SQLITE     = "sqlite"
	STORE_DYNAMODB   = "dynamodb"
	STORE_POSTGRES   = "postgres"
	STORE_OPENSEARCH = "opensearch"
)

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// Load reads the process environment. Call LoadEnv first to pull in the
// .env file for APP_ENV.
func Load() Config {
	return Config{
		Env: Environment(),

		DatasetDir:  getEnv("DATASET_DIR", "datasets"),
		CatalogFile: getEnv("CATALOG_FILE", ""),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		ScorerWorkers:     getEnvInt("SCORER_WORKERS", 4),
		NegativeThreshold: getEnvFloat("NEGATIVE_THRESHOLD", 25),

		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",
		ScoreCacheTTL:  time.Duration(getEnvInt("SCORE_CACHE_TTL", 86400)) * time.Second,

		StoreDriver: getEnv("STORE_DRIVER", STORE_NONE),
		SQLitePath:  getEnv("SQLITE_PATH", "sentify.db"),
		DynamoTable: getEnv("DYNAMODB_TABLE", "AnalysisResults"),
		AWSRegion:   getEnv("AWS_REGION", "us-west-2"),
		AWSEndpoint: getEnv("AWS_ENDPOINT", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "sentify"),

		OpenSearchEndpoint: getEnv("OPENSEARCH_ENDPOINT", "http://localhost:9200"),
		OpenSearchUsername: getEnv("OPENSEARCH_USERNAME", "admin"),
		OpenSearchPassword: getEnv("OPENSEARCH_PASSWORD", ""),
		OpenSearchIndex:    getEnv("OPENSEARCH_INDEX", "analysis-results"),
		OpenSearchSigV4:    os.Getenv("OPENSEARCH_SIGV4") == "true",
	}
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Environment is the APP_ENV value, defaulting to dev.
func Environment() string {
	return getEnv("APP_ENV", "dev")
}
