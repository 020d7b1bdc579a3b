package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	Port     string
	AppURL   string
	Frontend string

	ShopifyAPIKey    string
	ShopifyAPISecret string
	ShopifyScopes    []string

	EncryptionSecret string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string

	// TokenTTL bounds the lifetime of stored tokens. Zero means no expiry:
	// Shopify offline tokens live until revoked, and revocation is detected
	// through upstream 401s.
	TokenTTL time.Duration

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		AppURL:           getenv("SHOPIFY_APP_URL", "http://localhost:8080"),
		Frontend:         getenv("FRONTEND_URL", "http://localhost:5173"),
		ShopifyAPIKey:    os.Getenv("SHOPIFY_API_KEY"),
		ShopifyAPISecret: os.Getenv("SHOPIFY_API_SECRET"),
		EncryptionSecret: os.Getenv("ENCRYPTION_SECRET"),
		MongoURI:         getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getenv("MONGODB_DATABASE", "contentboost"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
	}

	scopes := getenv("SHOPIFY_SCOPES", "read_products,write_products")
	for _, s := range strings.Split(scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.ShopifyScopes = append(cfg.ShopifyScopes, s)
		}
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}

	if cfg.ShopifyAPIKey == "" || cfg.ShopifyAPISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}
	if cfg.EncryptionSecret == "" {
		return nil, fmt.Errorf("ENCRYPTION_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
