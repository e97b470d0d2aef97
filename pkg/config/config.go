package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the screener
// SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Symbol source
	Universe UniverseConfig

	// Market data provider
	Yahoo YahooConfig

	// Quote fetching
	QuoteTTL     time.Duration
	FetchWorkers int

	// Outbound HTTP
	HTTPTimeout    time.Duration
	HTTPMaxRetries int

	// Strategy defaults file (optional YAML)
	StrategyConfig string

	// Cache warmer
	Warm WarmConfig

	// Redis (optional shared cache)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// UniverseConfig holds the index constituent list settings
type UniverseConfig struct {
	URL          string
	TTL          time.Duration
	SymbolSuffix string // provider suffix, e.g. ".NS"
}

// YahooConfig holds market data provider endpoints
type YahooConfig struct {
	ChartURL     string
	SummaryURL   string
	CookieURL    string // sets the session cookie the crumb is bound to
	CrumbURL     string
	HistoryRange string  // must cover 200 trading days
	RateLimit    float64 // requests per second
}

// WarmConfig controls the periodic cache warm-up job
type WarmConfig struct {
	Enabled  bool
	Schedule string // cron expression with seconds
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Universe: UniverseConfig{
			URL:          getEnv("UNIVERSE_URL", "https://archives.nseindia.com/content/indices/ind_nifty50list.csv"),
			TTL:          getEnvAsDuration("UNIVERSE_TTL", "1h"),
			SymbolSuffix: getEnv("SYMBOL_SUFFIX", ".NS"),
		},

		Yahoo: YahooConfig{
			ChartURL:     getEnv("YAHOO_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			SummaryURL:   getEnv("YAHOO_SUMMARY_URL", "https://query2.finance.yahoo.com/v10/finance/quoteSummary"),
			CookieURL:    getEnv("YAHOO_COOKIE_URL", "https://fc.yahoo.com"),
			CrumbURL:     getEnv("YAHOO_CRUMB_URL", "https://query1.finance.yahoo.com/v1/test/getcrumb"),
			HistoryRange: getEnv("YAHOO_HISTORY_RANGE", "1y"),
			RateLimit:    getEnvAsFloat("YAHOO_RATE_LIMIT", 5),
		},

		QuoteTTL:     getEnvAsDuration("QUOTE_TTL", "10m"),
		FetchWorkers: getEnvAsInt("FETCH_WORKERS", 4),

		HTTPTimeout:    getEnvAsDuration("HTTP_TIMEOUT", "30s"),
		HTTPMaxRetries: getEnvAsInt("HTTP_MAX_RETRIES", 2),

		StrategyConfig: getEnv("STRATEGY_CONFIG", ""),

		Warm: WarmConfig{
			Enabled:  getEnvAsBool("WARM_ENABLED", false),
			Schedule: getEnv("WARM_SCHEDULE", "0 */10 * * * *"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Universe.URL == "" {
		return fmt.Errorf("UNIVERSE_URL is required")
	}
	if c.Universe.TTL <= 0 {
		return fmt.Errorf("UNIVERSE_TTL must be positive")
	}
	if c.QuoteTTL <= 0 {
		return fmt.Errorf("QUOTE_TTL must be positive")
	}

	if c.FetchWorkers < 1 {
		return fmt.Errorf("FETCH_WORKERS must be at least 1")
	}
	if c.Yahoo.RateLimit <= 0 {
		return fmt.Errorf("YAHOO_RATE_LIMIT must be positive")
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES must not be negative")
	}

	return nil
}

// loadEnvFile tries to load .env from the working directory or next to the binary
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
