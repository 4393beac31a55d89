package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	// NLP collaborator endpoints
	GrammarServiceURL    string
	GenerationServiceURL string
	SentimentServiceURL  string
	GenerationProvider   string // "http" or "lorem" (dev mock)
	// Collaborator retry policy
	UpstreamAttempts int
	UpstreamDelay    time.Duration
	UpstreamTimeout  time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		GrammarServiceURL:    getEnv("GRAMMAR_SERVICE_URL", "http://127.0.0.1:5001"),
		GenerationServiceURL: getEnv("GENERATION_SERVICE_URL", "http://127.0.0.1:8000"),
		SentimentServiceURL:  getEnv("SENTIMENT_SERVICE_URL", "http://127.0.0.1:5002"),
		GenerationProvider:   getEnv("GENERATION_PROVIDER", defaultProvider(env)),

		UpstreamAttempts: 3,
		UpstreamDelay:    2 * time.Second,
		UpstreamTimeout:  10 * time.Second,
	}
}

// defaultProvider picks the mock generator outside prod so the service runs
// without the model host
func defaultProvider(env string) string {
	if env == "prod" {
		return "http"
	}
	return "lorem"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
