// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout (default 10s). A timed-out
	// fetch downgrades to "no data for this page", never a run failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "seobench/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrawlConfig holds settings for the KPI extraction stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxSample caps the number of pages sampled per domain (default 15).
	// Also bounds page-fetch concurrency within one domain.
	MaxSample int `json:"max_sample" yaml:"max_sample"`

	// Live selects the live crawl source. When false (or when no crawl
	// credentials are configured) the deterministic synthetic source is
	// used instead.
	Live bool `json:"live" yaml:"live"`
}

// ScoringConfig holds settings for the scoring stage.
type ScoringConfig struct {
	// WeightsPath is the KPI weight table JSON file. A separate learning
	// job may rewrite it between runs; when missing or unreadable the
	// built-in default table is used.
	WeightsPath string `json:"weights_path" yaml:"weights_path"`
}

// RulesConfig holds settings for the recommendation stage.
type RulesConfig struct {
	// RulesPath resolves to a JSON array of Rule records, reloaded on
	// every generation run.
	RulesPath string `json:"rules_path" yaml:"rules_path"`

	// MaxRecommendations caps how many recommendations one run persists
	// (default 10). The rest are discarded and regenerated next run.
	MaxRecommendations int `json:"max_recommendations" yaml:"max_recommendations"`
}

// StoreConfig holds settings for the persistence layer.
type StoreConfig struct {
	// Path is the SQLite database file (default "bench/bench.db").
	Path string `json:"path" yaml:"path"`

	// CompetitorsPath is the YAML registry of tracked competitor domains,
	// seeded into the database on startup.
	CompetitorsPath string `json:"competitors_path" yaml:"competitors_path"`
}

// SchedulerConfig holds settings for the nightly benchmark scheduler.
type SchedulerConfig struct {
	// Enabled controls whether the cron entry is registered. Manual
	// triggers work regardless.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Schedule is a cron expression (default "0 2 * * *", nightly 02:00).
	Schedule string `json:"schedule" yaml:"schedule"`

	// SelfDomain is the product's own domain, crawled and scored with the
	// same code path as competitors.
	SelfDomain string `json:"self_domain" yaml:"self_domain"`
}

// ServerConfig holds settings for the admin HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8790").
	Addr string `json:"addr" yaml:"addr"`

	// AuthToken guards the admin routes. Empty disables the check; the
	// surrounding product normally fronts this API with its own auth.
	AuthToken string `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`

	// LogFile receives JSON logs alongside stderr text logs.
	LogFile string `json:"log_file" yaml:"log_file"`
}

// BenchConfig groups all stage configurations for the engine.
type BenchConfig struct {
	Crawl     CrawlConfig     `json:"crawl" yaml:"crawl"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Rules     RulesConfig     `json:"rules" yaml:"rules"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
