// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vendorscore/internal/collect"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [company name]",
	Short: "Resolve a company name to candidate website URLs",
	Long: `Resolve turns a company name into candidate homepage URLs via web search.
When --website is given the search is skipped and the normalized URL is
the only candidate.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("website", "", "known website; skips the search")
	resolveCmd.Flags().Int("max-candidates", 0, "maximum search candidates (default 5)")
	resolveCmd.Flags().Bool("json", false, "output candidates as JSON")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	website, _ := cmd.Flags().GetString("website")
	if len(args) == 0 && website == "" {
		return fmt.Errorf("provide a company name or --website")
	}
	name := strings.Join(args, " ")

	cfg := collectorConfig()
	if n, _ := cmd.Flags().GetInt("max-candidates"); n > 0 {
		cfg.MaxCandidates = n
	}

	collector := collect.New(nil, nil, cfg)
	candidates := collector.ResolveCandidates(context.Background(), name, website)
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates found for %q", name)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}
	for _, c := range candidates {
		fmt.Println(c)
	}
	return nil
}
