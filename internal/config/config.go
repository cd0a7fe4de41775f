package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"wealthway/internal/core"
)

// Backend names accepted in DATA_BACKEND.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var (
	validBackends  = []string{BackendFile, BackendSQLite, BackendPostgres, BackendMemory}
	validProviders = []string{"gemini", "openai", "none"}
	validLevels    = []string{"debug", "info", "warn", "warning", "error"}
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Storage
	DataBackend  string
	DataFile     string
	SQLiteDBPath string
	PostgresDSN  string

	// AMQP event mirror, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string

	// Insights
	InsightsProvider  string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	InsightsModel     string
	InsightsTimeout   time.Duration
	InsightsCacheTTL  time.Duration
	InsightsCacheSize int

	// Presentation
	DefaultTheme string

	LogLevel string
}

func Load() *Config {
	geminiKey := getEnv("GEMINI_API_KEY", os.Getenv("API_KEY"))
	defaultProvider := "none"
	if geminiKey != "" {
		defaultProvider = "gemini"
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", BackendFile)),
		DataFile:     getEnv("DATA_FILE", "./data/wealthway.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/wealthway.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wealthway"),

		InsightsProvider:  strings.ToLower(getEnv("INSIGHTS_PROVIDER", defaultProvider)),
		GeminiAPIKey:      geminiKey,
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		InsightsModel:     getEnv("INSIGHTS_MODEL", ""),
		InsightsTimeout:   getEnvDuration("INSIGHTS_TIMEOUT", 30*time.Second),
		InsightsCacheTTL:  getEnvDuration("INSIGHTS_CACHE_TTL", time.Hour),
		InsightsCacheSize: getEnvInt("INSIGHTS_CACHE_SIZE", 128),

		DefaultTheme: strings.ToLower(getEnv("DEFAULT_THEME", string(core.Light))),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate reports every problem in c as one error.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendFile:
		if c.DataFile == "" {
			errs = append(errs, "data file path cannot be empty when using file backend")
		} else if err := ensureDir(c.DataFile); err != nil {
			errs = append(errs, err.Error())
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(c.SQLiteDBPath); err != nil {
			errs = append(errs, err.Error())
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, "POSTGRES_DSN is required when using postgres backend")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains(validProviders, c.InsightsProvider) {
		errs = append(errs, fmt.Sprintf("invalid insights provider '%s': must be one of %v", c.InsightsProvider, validProviders))
	}
	switch c.InsightsProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, "GEMINI_API_KEY (or API_KEY) is required for the gemini insights provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			errs = append(errs, "OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai insights provider")
		}
		if c.OpenAIBaseURL != "" {
			if u, err := url.Parse(c.OpenAIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				errs = append(errs, fmt.Sprintf("invalid OpenAI base URL '%s': must be an http(s) URL", c.OpenAIBaseURL))
			}
		}
	}

	if c.InsightsTimeout < time.Second || c.InsightsTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid insights timeout %v: must be between 1s and 5m", c.InsightsTimeout))
	}
	if c.InsightsCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid insights cache TTL %v: must not be negative", c.InsightsCacheTTL))
	}
	if c.InsightsCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid insights cache size %d: must be at least 1", c.InsightsCacheSize))
	}

	if _, ok := core.ParseTheme(c.DefaultTheme); !ok {
		errs = append(errs, fmt.Sprintf("invalid default theme '%s': must be 'light' or 'dark'", c.DefaultTheme))
	}

	if !slices.Contains(validLevels, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Theme returns the configured default theme.
func (c *Config) Theme() core.Theme {
	t, ok := core.ParseTheme(c.DefaultTheme)
	if !ok {
		return core.Light
	}
	return t
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory '%s': %v", dir, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
