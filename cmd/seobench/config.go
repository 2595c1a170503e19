// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/carmarket/seobench/pkg/types"
)

const defaultUserAgent = "seobench/0.1"

func setConfigDefaults() {
	viper.SetDefault("crawl.timeout", 10*time.Second)
	viper.SetDefault("crawl.user_agent", defaultUserAgent)
	viper.SetDefault("crawl.max_sample", 15)
	viper.SetDefault("crawl.live", false)

	viper.SetDefault("scoring.weights_path", "bench/weights.json")

	viper.SetDefault("rules.rules_path", "bench/rules.json")
	viper.SetDefault("rules.max_recommendations", 10)

	viper.SetDefault("store.path", "bench/bench.db")
	viper.SetDefault("store.competitors_path", "bench/competitors.yaml")

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.schedule", "0 2 * * *")
	viper.SetDefault("scheduler.self_domain", "cararth.com")

	viper.SetDefault("server.addr", ":8790")
	viper.SetDefault("server.log_file", "")
}

// benchConfig assembles the full engine configuration from viper, so
// every value can come from seobench.yaml or a SEOBENCH_* variable.
func benchConfig() types.BenchConfig {
	return types.BenchConfig{
		Crawl: types.CrawlConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("crawl.timeout"),
				UserAgent: viper.GetString("crawl.user_agent"),
			},
			MaxSample: viper.GetInt("crawl.max_sample"),
			Live:      viper.GetBool("crawl.live"),
		},
		Scoring: types.ScoringConfig{
			WeightsPath: viper.GetString("scoring.weights_path"),
		},
		Rules: types.RulesConfig{
			RulesPath:          viper.GetString("rules.rules_path"),
			MaxRecommendations: viper.GetInt("rules.max_recommendations"),
		},
		Store: types.StoreConfig{
			Path:            viper.GetString("store.path"),
			CompetitorsPath: viper.GetString("store.competitors_path"),
		},
		Scheduler: types.SchedulerConfig{
			Enabled:    viper.GetBool("scheduler.enabled"),
			Schedule:   viper.GetString("scheduler.schedule"),
			SelfDomain: viper.GetString("scheduler.self_domain"),
		},
		Server: types.ServerConfig{
			Addr:      viper.GetString("server.addr"),
			AuthToken: secretDefault("bench-auth-token", viper.GetString("server.auth_token")),
			LogFile:   viper.GetString("server.log_file"),
		},
	}
}

// crawlKey returns the live-crawl credential, if configured.
func crawlKey() string {
	return secretDefault("crawl-api-key", viper.GetString("crawl.api_key"))
}
