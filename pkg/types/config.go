// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request. The same
	// agent name is evaluated against robots.txt rules.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CollectorConfig holds settings for candidate resolution and crawling.
type CollectorConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxCandidates caps search-based site candidates (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// MaxDiscovered caps homepage links followed per crawl (default 8).
	MaxDiscovered int `json:"max_discovered" yaml:"max_discovered"`

	// FetchDelay is the pause before each discovery fetch (default 500ms).
	// Applies regardless of whether earlier fetches hit the cache.
	FetchDelay time.Duration `json:"fetch_delay" yaml:"fetch_delay"`
}

// ModelConfig holds shared settings for the model backend.
type ModelConfig struct {
	// Model is the model identifier (e.g. "gpt-4.1-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates the backend call. Held in memory only; never
	// persisted by the pipeline.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ScoringConfig holds settings for the scoring stage.
type ScoringConfig struct {
	ModelConfig `yaml:",inline"`

	// PageCharBudget truncates each page's extracted text (default 4000).
	PageCharBudget int `json:"page_char_budget" yaml:"page_char_budget"`

	// CorpusCharBudget truncates the joined corpus (default 16000).
	CorpusCharBudget int `json:"corpus_char_budget" yaml:"corpus_char_budget"`
}

// StoreConfig holds settings for the page cache and run ledger.
type StoreConfig struct {
	// DBPath is the SQLite database file (e.g. "vendorscore/cache.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ReportConfig holds settings for the report writers.
type ReportConfig struct {
	// OutputDir is the directory report files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Collector CollectorConfig `json:"collector" yaml:"collector"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Report    ReportConfig    `json:"report" yaml:"report"`
}

// Defaults used when a config value is zero.
const (
	DefaultModel            = "gpt-4.1-mini"
	DefaultUserAgent        = "Mozilla/5.0 (compatible; VendorScoreBot/0.1; +https://vendorscore.local)"
	DefaultTimeout          = 15 * time.Second
	DefaultFetchDelay       = 500 * time.Millisecond
	DefaultMaxCandidates    = 5
	DefaultMaxDiscovered    = 8
	DefaultPageCharBudget   = 4000
	DefaultCorpusCharBudget = 16000
)
