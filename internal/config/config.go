package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	Search         Search
	// EventIDsTable and IndexName may be empty; the handler rejects each
	// invocation that needs them rather than refusing to start.
	EventIDsTable  string
	IndexName      string
	IndexRefresh   string // "", "true", "false" or "wait_for"
	SNSRegion      string
	LogLevel       string
	LogFormat      string // "json" or "text"
	DevBootstrap   bool
	AllowedOrigins []string // CORS allowed origins
}

// Search holds the connection settings for the search cluster.
type Search struct {
	Host     string
	UserName string
	Password string
}

// Load reads all configuration from environment variables.
// The search and index settings keep the lower-camel names the function has
// always been deployed with.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Search: Search{
			Host:     getEnv("host", "http://localhost:9200"),
			UserName: getEnv("userName", ""),
			Password: getEnv("password", ""),
		},
		EventIDsTable:  getEnv("hotelCreatedEventIdsTable", ""),
		IndexName:      getEnv("indexName", ""),
		IndexRefresh:   getEnv("INDEX_REFRESH", ""),
		SNSRegion:      getEnv("SNS_REGION", getEnv("AWS_REGION", "us-east-1")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		DevBootstrap:   getEnvBool("DEV_BOOTSTRAP", false),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
