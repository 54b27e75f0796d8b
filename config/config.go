// Package config provides configuration for storechat.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Retrieval modes. Exactly one is active per deployment.
const (
	RetrievalKeyword = "keyword"
	RetrievalFull    = "full"
)

// Config holds the storechat configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Transcript store
	DatabaseURL string

	// Catalog provider (Shopify Storefront API)
	ShopDomain           string
	StorefrontToken      string
	StorefrontAPIVersion string
	CatalogPageSize      int
	CatalogSyncInterval  time.Duration

	// Completion provider
	OpenAIBaseURL     string
	OpenAIAPIKey      string
	CompletionModels  []string
	CompletionTimeout time.Duration

	// Retrieval
	RetrievalMode      string
	MatchLimit         int
	CatalogPromptLimit int

	// Store facts document
	StoreFactsPath string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:             getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:          getEnv("DATABASE_URL", "file::memory:?cache=shared"),
		ShopDomain:           getEnv("SHOPIFY_STORE_DOMAIN", ""),
		StorefrontToken:      getEnv("SHOPIFY_STOREFRONT_TOKEN", ""),
		StorefrontAPIVersion: getEnv("SHOPIFY_API_VERSION", "2024-01"),
		CatalogPageSize:      getEnvInt("CATALOG_PAGE_SIZE", 250),
		CatalogSyncInterval:  time.Duration(getEnvInt("CATALOG_SYNC_INTERVAL_MIN", 360)) * time.Minute,
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		CompletionModels:     getEnvList("COMPLETION_MODELS", "gpt-4o-mini,gpt-4o"),
		CompletionTimeout:    time.Duration(getEnvInt("COMPLETION_TIMEOUT_MS", 60000)) * time.Millisecond,
		RetrievalMode:        getEnv("RETRIEVAL_MODE", RetrievalKeyword),
		MatchLimit:           getEnvInt("MATCH_LIMIT", 8),
		CatalogPromptLimit:   getEnvInt("CATALOG_PROMPT_LIMIT", 200),
		StoreFactsPath:       getEnv("STORE_FACTS_PATH", "store_facts.json"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvList(key, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
