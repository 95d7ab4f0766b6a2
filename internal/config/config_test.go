package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxPerSource != 3 {
		t.Errorf("MaxPerSource = %d, want 3", cfg.MaxPerSource)
	}
	if cfg.FeedWindow != 30*24*time.Hour {
		t.Errorf("FeedWindow = %v, want 30 days", cfg.FeedWindow)
	}
	if !cfg.KeepUndated {
		t.Error("KeepUndated should default to true")
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %f, want 0.7", cfg.SimilarityThreshold)
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.TopResults != 10 {
		t.Errorf("TopResults = %d, want 10", cfg.TopResults)
	}
}

func TestLoad_MissingCredentialsIsNotAnError(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without credentials: %v", err)
	}
	if cfg.GeminiAPIKey != "" || cfg.NewsAPIKey != "" || cfg.DatabaseURL != "" {
		t.Error("credentials should be empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_PER_SOURCE", "7")
	t.Setenv("FEED_WINDOW_DAYS", "14")
	t.Setenv("KEEP_UNDATED", "false")
	t.Setenv("SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("SCRAPE_INTERVAL_MS", "0")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxPerSource != 7 {
		t.Errorf("MaxPerSource = %d, want 7", cfg.MaxPerSource)
	}
	if cfg.FeedWindow != 14*24*time.Hour {
		t.Errorf("FeedWindow = %v, want 14 days", cfg.FeedWindow)
	}
	if cfg.KeepUndated {
		t.Error("KeepUndated should be overridable to false")
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %f, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.ScrapeInterval != 0 {
		t.Errorf("ScrapeInterval = %v, want 0 (pacing disabled)", cfg.ScrapeInterval)
	}
	if cfg.GeminiModel != "gemini-1.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	t.Setenv("MAX_PER_SOURCE", "0")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for MAX_PER_SOURCE=0")
	}
}

func TestLoad_InvalidThresholdFallsBack(t *testing.T) {
	t.Setenv("SIMILARITY_THRESHOLD", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %f, out-of-range value should keep the default", cfg.SimilarityThreshold)
	}
}
