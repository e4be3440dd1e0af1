package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Scoring     ScoringConfig  `toml:"scoring"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Quotes      QuotesConfig   `toml:"quotes"`
}

// StorageConfig locates the persisted JSON documents. Each document is read
// fully on first use and rewritten fully on every mutation.
type StorageConfig struct {
	DataDir    string `toml:"data_dir"`         // Directory for persisted state
	LedgerFile string `toml:"ledger_file"`      // Delivery ledger document (relative to data_dir)
	RollupFile string `toml:"rollup_file"`      // Weekly rollup document (relative to data_dir)
	MaxPerCat  int    `toml:"max_per_category"` // Ledger eviction cap per category
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ScoringConfig locates the externally loaded ruleset.
type ScoringConfig struct {
	RulesFile string  `toml:"rules_file"` // TOML ruleset (keyword lists, weights, priority entries)
	MinScore  float64 `toml:"min_score"`  // Minimum importance score to keep a news record
}

// PipelineConfig bounds each collection cycle.
type PipelineConfig struct {
	Concurrency    int `toml:"concurrency"`      // Collector fan-out worker count
	MorningMaxNews int `toml:"morning_max_news"` // Top-N news for the morning cycle
	MiddayMaxNews  int `toml:"midday_max_news"`  // Top-N news for the midday cycle
	MaxReports     int `toml:"max_reports"`      // Top-N reports per cycle
	MaxVideos      int `toml:"max_videos"`       // Top-N videos per cycle
}

// ScheduleConfig holds cron expressions for the registered jobs.
type ScheduleConfig struct {
	Morning      string   `toml:"morning"`       // Morning briefing cycle
	Midday       string   `toml:"midday"`        // Midday news cycle
	MarketClose  string   `toml:"market_close"`  // Market-close metric snapshot
	WeeklyDigest string   `toml:"weekly_digest"` // Weekly digest + rollup reset
	Holidays     []string `toml:"holidays"`      // Market holidays ("2006-01-02"), cycles skip these
}

// QuotesConfig configures the market quotes API client.
type QuotesConfig struct {
	BaseURL   string   `toml:"base_url"`
	APIKey    string   `toml:"api_key"`
	RateLimit int      `toml:"rate_limit"` // Requests per second
	Symbols   []string `toml:"symbols"`    // Tracked metrics (indices, FX, commodities)
}

// NewDefaultConfig returns the built-in defaults, overridden by file then env.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			DataDir:    "./data",
			LedgerFile: "sent_items.json",
			RollupFile: "weekly_rollup.json",
			MaxPerCat:  1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Scoring: ScoringConfig{
			RulesFile: "rules.toml",
			MinScore:  0.3,
		},
		Pipeline: PipelineConfig{
			Concurrency:    4,
			MorningMaxNews: 20,
			MiddayMaxNews:  15,
			MaxReports:     10,
			MaxVideos:      10,
		},
		Schedule: ScheduleConfig{
			Morning:      "0 7 * * 1-5",
			Midday:       "0 12 * * 1-5",
			MarketClose:  "10 16 * * 1-5",
			WeeklyDigest: "0 9 * * 6",
		},
		Quotes: QuotesConfig{
			BaseURL:   "",
			RateLimit: 10,
			Symbols:   []string{"kospi", "kosdaq", "usd_krw", "wti", "gold"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2
// -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("HERALD_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if dir := os.Getenv("HERALD_DATA_DIR"); dir != "" {
		config.Storage.DataDir = dir
	}
	if level := os.Getenv("HERALD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if rules := os.Getenv("HERALD_RULES_FILE"); rules != "" {
		config.Scoring.RulesFile = rules
	}
	if key := os.Getenv("HERALD_QUOTES_API_KEY"); key != "" {
		config.Quotes.APIKey = key
	}
	if limit := os.Getenv("HERALD_QUOTES_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.Quotes.RateLimit = n
		}
	}
	if c := os.Getenv("HERALD_PIPELINE_CONCURRENCY"); c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			config.Pipeline.Concurrency = n
		}
	}
}
