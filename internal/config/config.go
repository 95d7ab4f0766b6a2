package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Sources
	BlogsConfigPath string
	MaxPerSource    int           // feed/scrape entries kept per source
	FeedWindow      time.Duration // recency window for feed entries
	KeepUndated     bool          // keep posts with missing/unparseable dates

	// NewsAPI settings
	NewsAPIKey      string
	NewsAPIDaysBack int
	NewsAPIMaxItems int

	// Gemini settings
	GeminiAPIKey    string
	GeminiModel     string
	MaxSummaries    int // per-run generation budget (0 = unlimited)
	MaxEngagement   int
	MaxTotalAICalls int
	SummaryCacheTTL time.Duration

	// Intelligence settings
	SimilarityThreshold float64
	TrendingWindowDays  int

	// Storage settings
	DatabaseURL   string
	StateFilePath string

	// App settings
	Debug             bool
	RequestTimeout    time.Duration
	SourceConcurrency int
	ScrapeInterval    time.Duration // minimum spacing between scrape requests
	RetryAttempts     int
	RetryDelay        time.Duration
	TopResults        int
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		BlogsConfigPath:     "configs/blogs.yaml",
		MaxPerSource:        3,
		FeedWindow:          30 * 24 * time.Hour,
		KeepUndated:         true,
		NewsAPIDaysBack:     7,
		NewsAPIMaxItems:     20,
		GeminiModel:         "gemini-1.5-flash",
		MaxSummaries:        20,
		MaxEngagement:       20,
		MaxTotalAICalls:     60,
		SummaryCacheTTL:     48 * time.Hour,
		SimilarityThreshold: 0.7,
		TrendingWindowDays:  3,
		RequestTimeout:      15 * time.Second,
		SourceConcurrency:   4,
		ScrapeInterval:      500 * time.Millisecond,
		RetryAttempts:       3,
		RetryDelay:          2 * time.Second,
		TopResults:          10,
	}

	// Load from environment
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.BlogsConfigPath = getEnvOrDefault("BLOGS_CONFIG_PATH", cfg.BlogsConfigPath)
	cfg.StateFilePath = os.Getenv("STATE_FILE_PATH")
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)

	cfg.MaxPerSource = getEnvIntOrDefault("MAX_PER_SOURCE", cfg.MaxPerSource)
	cfg.NewsAPIDaysBack = getEnvIntOrDefault("NEWS_API_DAYS_BACK", cfg.NewsAPIDaysBack)
	cfg.NewsAPIMaxItems = getEnvIntOrDefault("NEWS_API_MAX_ITEMS", cfg.NewsAPIMaxItems)
	cfg.MaxSummaries = getEnvIntOrDefault("MAX_SUMMARIES", cfg.MaxSummaries)
	cfg.MaxEngagement = getEnvIntOrDefault("MAX_ENGAGEMENT", cfg.MaxEngagement)
	cfg.MaxTotalAICalls = getEnvIntOrDefault("MAX_TOTAL_AI_CALLS", cfg.MaxTotalAICalls)
	cfg.TrendingWindowDays = getEnvIntOrDefault("TRENDING_WINDOW_DAYS", cfg.TrendingWindowDays)
	cfg.SourceConcurrency = getEnvIntOrDefault("SOURCE_CONCURRENCY", cfg.SourceConcurrency)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.TopResults = getEnvIntOrDefault("TOP_RESULTS", cfg.TopResults)

	if v := os.Getenv("FEED_WINDOW_DAYS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.FeedWindow = time.Duration(val) * 24 * time.Hour
		}
	}

	// Deliberate completeness-over-precision policy: undated posts are kept
	// by default, but it is a tunable because it can over-include stale
	// content.
	if v := os.Getenv("KEEP_UNDATED"); v != "" {
		cfg.KeepUndated = v == "true"
	}

	if v := os.Getenv("SIMILARITY_THRESHOLD"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val <= 1 {
			cfg.SimilarityThreshold = val
		}
	}

	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}

	if v := os.Getenv("SCRAPE_INTERVAL_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.ScrapeInterval = time.Duration(val) * time.Millisecond
		}
	}

	if v := os.Getenv("SUMMARY_CACHE_TTL_HOURS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.SummaryCacheTTL = time.Duration(val) * time.Hour
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks invariants the pipeline depends on. Missing credentials
// for optional collaborators (Gemini, NewsAPI, Postgres) are not errors;
// those features are simply disabled for the run.
func (c *Config) Validate() error {
	if c.MaxPerSource <= 0 {
		return fmt.Errorf("MAX_PER_SOURCE must be positive")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0,1]")
	}
	if c.SourceConcurrency <= 0 {
		return fmt.Errorf("SOURCE_CONCURRENCY must be positive")
	}
	if c.TrendingWindowDays <= 0 {
		return fmt.Errorf("TRENDING_WINDOW_DAYS must be positive")
	}
	return nil
}
