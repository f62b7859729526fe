package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Providers     ProvidersConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ProvidersConfig holds the inference provider configurations in chain
// order: Groq is the primary, Hugging Face the secondary.
type ProvidersConfig struct {
	Groq        ProviderConfig
	HuggingFace ProviderConfig
}

// ProviderConfig holds one provider's configuration. Loaded once at startup
// and never mutated afterwards.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Enabled bool
}

// ObservabilityConfig holds logging and metrics configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	groqKey := getEnv("GROQ_API_KEY", "")
	hfKey := getEnv("HUGGINGFACE_API_KEY", "")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Providers: ProvidersConfig{
			Groq: ProviderConfig{
				APIKey:  groqKey,
				BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
				Model:   getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
				Timeout: getEnvAsDuration("GROQ_TIMEOUT", 30*time.Second),
				Enabled: getEnvAsBool("GROQ_ENABLED", groqKey != ""),
			},
			HuggingFace: ProviderConfig{
				APIKey:  hfKey,
				BaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co"),
				Model:   getEnv("HUGGINGFACE_MODEL", "microsoft/DialoGPT-medium"),
				Timeout: getEnvAsDuration("HUGGINGFACE_TIMEOUT", 25*time.Second),
				Enabled: getEnvAsBool("HUGGINGFACE_ENABLED", hfKey != ""),
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set. Whether any
// provider is enabled is enforced by the provider registry, which fails
// fast at startup with the full chain in hand.
func (c *Config) Validate() error {
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Providers.Groq.Enabled && c.Providers.Groq.APIKey == "" {
		return fmt.Errorf("groq is enabled but GROQ_API_KEY is not set")
	}
	if c.Providers.HuggingFace.Enabled && c.Providers.HuggingFace.APIKey == "" {
		return fmt.Errorf("huggingface is enabled but HUGGINGFACE_API_KEY is not set")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
