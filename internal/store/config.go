package store

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"reddit-stocks-analyzer/internal/types"
)

var validSorts = map[string]bool{"hot": true, "new": true, "top": true, "rising": true}
var validTimeFilters = map[string]bool{"day": true, "week": true, "month": true, "year": true, "all": true}

type Config struct {
	Reddit struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		UserAgent    string `yaml:"user_agent"`
		Subreddit    string `yaml:"subreddit"`
	} `yaml:"reddit"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Fetch struct {
		Limit      int    `yaml:"limit"`
		Sort       string `yaml:"sort"`
		TimeFilter string `yaml:"time_filter"`
		TitleOnly  *bool  `yaml:"title_only"`
	} `yaml:"fetch"`
	RateLimit struct {
		ValidationDelayMs int `yaml:"validation_delay_ms"`
		HistoryDelayMs    int `yaml:"history_delay_ms"`
	} `yaml:"rate_limit"`
	Horizons []struct {
		Days  int    `yaml:"days"`
		Label string `yaml:"label"`
	} `yaml:"horizons"`
	Report struct {
		ChartDir string `yaml:"chart_dir"`
	} `yaml:"report"`
	CacheDir string `yaml:"cache_dir"`
}

func (c *Config) Validate() error {
	if !validSorts[c.Fetch.Sort] {
		return fmt.Errorf("invalid sort option '%s': must be one of hot, new, top, rising", c.Fetch.Sort)
	}
	if c.Fetch.Sort == "top" && !validTimeFilters[c.Fetch.TimeFilter] {
		return fmt.Errorf("invalid time filter '%s': must be one of day, week, month, year, all", c.Fetch.TimeFilter)
	}
	if c.Fetch.Limit <= 0 {
		return fmt.Errorf("fetch limit must be positive, got %d", c.Fetch.Limit)
	}
	for _, h := range c.Horizons {
		if h.Days <= 0 || h.Label == "" {
			return fmt.Errorf("invalid horizon (days=%d, label=%q)", h.Days, h.Label)
		}
	}
	return nil
}

// LoadConfig reads the YAML config file, fills in defaults, applies
// environment overrides and validates the result. A missing file is not an
// error: the defaults plus environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	c.applyDefaults()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "RedditStockAnalyzer"
	}
	if c.Reddit.Subreddit == "" {
		c.Reddit.Subreddit = "pennystocks"
	}
	if c.Database.Path == "" {
		c.Database.Path = "reddit_stocks.db"
	}
	if c.Fetch.Limit == 0 {
		c.Fetch.Limit = 100
	}
	if c.Fetch.Sort == "" {
		c.Fetch.Sort = "top"
	}
	if c.Fetch.TimeFilter == "" {
		c.Fetch.TimeFilter = "month"
	}
	if c.Fetch.TitleOnly == nil {
		v := true
		c.Fetch.TitleOnly = &v
	}
	if c.RateLimit.ValidationDelayMs == 0 {
		c.RateLimit.ValidationDelayMs = 200
	}
	if c.RateLimit.HistoryDelayMs == 0 {
		c.RateLimit.HistoryDelayMs = 100
	}
	if c.Report.ChartDir == "" {
		c.Report.ChartDir = "charts"
	}
	if c.CacheDir == "" {
		c.CacheDir = "cache/marketdata"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		c.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		c.Reddit.ClientSecret = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.Reddit.UserAgent = v
	}
	if v := os.Getenv("SUBREDDIT_NAME"); v != "" {
		c.Reddit.Subreddit = v
	}
	if v := os.Getenv("DATABASE_NAME"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DEFAULT_POST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fetch.Limit = n
		}
	}
}

// HorizonTable returns the configured horizons, or the standard table when
// none are configured.
func (c *Config) HorizonTable() []types.Horizon {
	if len(c.Horizons) == 0 {
		return types.DefaultHorizons()
	}
	out := make([]types.Horizon, 0, len(c.Horizons))
	for _, h := range c.Horizons {
		out = append(out, types.Horizon{Days: h.Days, Label: h.Label})
	}
	return out
}

// ValidationDelay is the minimum interval between ticker validation calls.
func (c *Config) ValidationDelay() time.Duration {
	return time.Duration(c.RateLimit.ValidationDelayMs) * time.Millisecond
}

// HistoryDelay is the minimum interval between price-history fetches.
func (c *Config) HistoryDelay() time.Duration {
	return time.Duration(c.RateLimit.HistoryDelayMs) * time.Millisecond
}
