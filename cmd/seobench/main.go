// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the seobench CLI: competitive
// SEO/GEO benchmarking for the marketplace against its tracked
// competitors.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/carmarket/seobench/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the seobench CLI.
var rootCmd = &cobra.Command{
	Use:   "seobench",
	Short: "Competitive SEO/GEO benchmarking engine",
	Long: `seobench measures the marketplace and its competitors on five pillars
(Indexability, Performance, Content, Internal Linking, GEO), computes
per-KPI gaps against the per-metric leader, and turns them into ranked,
confidence-scored recommendations via a declarative rule set.

Each stage is a subcommand: crawl, score, recommend, and run compose one
benchmark cycle; serve runs the nightly scheduler plus the admin API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is a developer convenience; absence is normal.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./seobench.yaml or ~/.config/seobench/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("seobench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "seobench"))
		}
	}

	viper.SetEnvPrefix("SEOBENCH")
	viper.AutomaticEnv()
	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
