// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vendorscore CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vendorscore/internal/secrets"
	"github.com/pdiddy/vendorscore/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the loaded
// secret for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the vendorscore CLI.
var rootCmd = &cobra.Command{
	Use:   "vendorscore",
	Short: "Collect public vendor websites and score them against a criteria catalog",
	Long: `vendorscore resolves a company name to its website, crawls a handful of
public pages politely, and asks a language model to score the company
against a weighted criteria catalog. Runs are recorded in a local SQLite
ledger and can be re-exported as CSV, XLSX, or PDF reports.

Each pipeline stage is also a standalone subcommand: resolve, collect,
score, criteria, runs, and report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; missing files are not an error.
		_ = godotenv.Load()

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vendorscore.yaml or ~/.config/vendorscore/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite ledger path (default: vendorscore/cache.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vendorscore")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vendorscore"))
		}
	}

	viper.SetEnvPrefix("VENDORSCORE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the ledger path from the flag, then the config file,
// then the default.
func dbPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	if p := viper.GetString("store.db_path"); p != "" {
		return p
	}
	return filepath.Join("vendorscore", "cache.db")
}

// collectorConfig builds the collector configuration from the config file.
// Zero values fall back to package defaults inside the collector.
func collectorConfig() types.CollectorConfig {
	return types.CollectorConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("collector.timeout"),
			UserAgent: viper.GetString("collector.user_agent"),
		},
		MaxCandidates: viper.GetInt("collector.max_candidates"),
		MaxDiscovered: viper.GetInt("collector.max_discovered"),
		FetchDelay:    viper.GetDuration("collector.fetch_delay"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
