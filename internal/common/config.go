package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-formatter/constants"
)

// DefaultTargetColumns are extracted when TARGET_COLUMNS is not set.
var DefaultTargetColumns = []string{"Description", "Gross worth"}

// Config holds all application configuration
type Config struct {
	Store   StoreConfig
	Poller  PollerConfig
	Extract ExtractConfig
	Journal JournalConfig
	Ingest  IngestConfig
	Metrics MetricsConfig
}

// StoreConfig holds object-store connection configuration
type StoreConfig struct {
	EndpointURL string
	Region      string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	Bucket      string
}

// PollerConfig holds poll-loop configuration
type PollerConfig struct {
	Interval time.Duration
}

// ExtractConfig holds extraction configuration
type ExtractConfig struct {
	TargetColumns []string
}

// JournalConfig holds the optional processing-journal configuration
type JournalConfig struct {
	Path string // empty disables the journal
}

// IngestConfig holds the optional local drop-directory configuration
type IngestConfig struct {
	DropDir  string // empty disables the watcher
	Debounce time.Duration
}

// MetricsConfig holds the optional metrics/health endpoint configuration
type MetricsConfig struct {
	Addr string // empty disables the endpoint
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			EndpointURL: getEnv("S3_ENDPOINT_URL", ""),
			Region:      getEnv("S3_DEFAULT_REGION", "us-east-1"),
			AccessKey:   getEnv("S3_ACCESS_KEY_ID", ""),
			SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
			UseSSL:      getEnvAsBool("S3_USE_SSL", false),
			Bucket:      getEnv("S3_BUCKET", constants.SourceBucket),
		},
		Poller: PollerConfig{
			Interval: time.Duration(getEnvAsInt("POLL_INTERVAL", 3)) * time.Second,
		},
		Extract: ExtractConfig{
			TargetColumns: getEnvAsList("TARGET_COLUMNS", DefaultTargetColumns),
		},
		Journal: JournalConfig{
			Path: getEnv("JOURNAL_PATH", ""),
		},
		Ingest: IngestConfig{
			DropDir:  getEnv("DROP_DIR", ""),
			Debounce: getEnvAsDuration("DROP_DEBOUNCE", 500*time.Millisecond),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, trimming whitespace around
// each entry and dropping empty ones.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Store.EndpointURL == "" {
		return NewAppError("CONFIG_ERROR", "S3_ENDPOINT_URL is required", ErrInvalidInput)
	}
	if c.Store.AccessKey == "" {
		return NewAppError("CONFIG_ERROR", "S3_ACCESS_KEY_ID is required", ErrInvalidInput)
	}
	if c.Store.SecretKey == "" {
		return NewAppError("CONFIG_ERROR", "S3_SECRET_ACCESS_KEY is required", ErrInvalidInput)
	}
	if c.Poller.Interval <= 0 {
		return NewAppError("CONFIG_ERROR", "POLL_INTERVAL must be positive", ErrInvalidInput)
	}
	if len(c.Extract.TargetColumns) == 0 {
		return NewAppError("CONFIG_ERROR", "TARGET_COLUMNS must name at least one column", ErrInvalidInput)
	}
	return nil
}
