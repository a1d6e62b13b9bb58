package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Backing services
	AccountServiceURL     string
	CreditServiceURL      string
	DebitServiceURL       string
	TransactionServiceURL string

	// Per-call timeouts. Single-item lookups use a short bound; list
	// lookups a longer one; the transaction list the longest.
	LookupTimeout       time.Duration
	ListTimeout         time.Duration
	TransactionsTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Observability
	OTLPEndpoint string

	// Reporting behavior
	AvgAccountIDPolicy string // "first_match" or "omit_when_mixed"
	DefaultAccountType string // fallback for unrecognized account types
	DefaultCreditType  string // fallback for unrecognized credit types
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AccountServiceURL:     getEnv("ACCOUNT_SERVICE_URL", "http://localhost:8081"),
		CreditServiceURL:      getEnv("CREDIT_SERVICE_URL", "http://localhost:8082"),
		DebitServiceURL:       getEnv("DEBIT_SERVICE_URL", "http://localhost:8083"),
		TransactionServiceURL: getEnv("TRANSACTION_SERVICE_URL", "http://localhost:8084"),

		LookupTimeout:       getEnvDuration("LOOKUP_TIMEOUT", 2*time.Second),
		ListTimeout:         getEnvDuration("LIST_TIMEOUT", 3*time.Second),
		TransactionsTimeout: getEnvDuration("TRANSACTIONS_TIMEOUT", 5*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		AvgAccountIDPolicy: getEnv("AVG_ACCOUNT_ID_POLICY", "first_match"),
		DefaultAccountType: getEnv("DEFAULT_ACCOUNT_TYPE", "SAVING"),
		DefaultCreditType:  getEnv("DEFAULT_CREDIT_TYPE", "PERSONAL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
