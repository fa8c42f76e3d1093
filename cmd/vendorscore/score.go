// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vendorscore/internal/report"
	"github.com/pdiddy/vendorscore/internal/score"
	"github.com/pdiddy/vendorscore/internal/store"
	"github.com/pdiddy/vendorscore/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score [company name]",
	Short: "Run the full pipeline: resolve, collect, score, report",
	Long: `Score resolves the company website, collects its public pages, asks the
model to fill in the criteria catalog, records the run in the ledger, and
writes report files. Candidates are tried in order until one yields pages.

The OpenAI API key comes from --api-key, the VENDORSCORE_OPENAI_API_KEY
environment variable, or .secrets/openai-api-key.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().String("website", "", "known website; skips the search")
	scoreCmd.Flags().StringSlice("extra", nil, "additional page URLs to fetch")
	scoreCmd.Flags().String("criteria-file", "", "YAML criteria catalog (default: built-in catalog)")
	scoreCmd.Flags().StringSlice("ids", nil, "restrict scoring to these criterion IDs")
	scoreCmd.Flags().StringSlice("categories", nil, "restrict scoring to these categories")
	scoreCmd.Flags().String("model", "", "model identifier (default gpt-4.1-mini)")
	scoreCmd.Flags().String("api-key", "", "OpenAI API key (overrides env and .secrets/)")
	scoreCmd.Flags().Int("pick", 0, "score the n-th candidate instead of trying each in order")
	scoreCmd.Flags().String("output-dir", "reports", "directory for report files")
	scoreCmd.Flags().StringSlice("formats", []string{"csv", "xlsx", "pdf"}, "report formats: csv, xlsx, pdf")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	website, _ := cmd.Flags().GetString("website")
	if len(args) == 0 && website == "" {
		return fmt.Errorf("provide a company name or --website")
	}
	name := strings.Join(args, " ")

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	ledger, err := store.New(dbPath(cmd))
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx := context.Background()
	cfg := collectorConfig()
	collector := newCollector(ledger, cfg)

	candidates := collector.ResolveCandidates(ctx, name, website)
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates found for %q", name)
	}
	if pick, _ := cmd.Flags().GetInt("pick"); pick > 0 {
		if pick > len(candidates) {
			return fmt.Errorf("--pick %d is out of range: %d candidate(s)", pick, len(candidates))
		}
		candidates = candidates[pick-1 : pick]
	}

	extra, _ := cmd.Flags().GetStringSlice("extra")
	var pages []types.Page
	var site string
	for _, candidate := range candidates {
		fmt.Fprintf(os.Stdout, "Collecting %s\n", candidate)
		pages = collector.Collect(ctx, candidate, extra, os.Stdout)
		if len(pages) > 0 {
			site = candidate
			break
		}
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages collected from %d candidate(s)", len(candidates))
	}

	engine := newEngine(cmd)
	runID := uuid.NewString()
	if err := ledger.StartRun(ctx, runID, name, site); err != nil {
		return err
	}

	sc, err := engine.Score(ctx, pages, criteria)
	if err != nil {
		return fmt.Errorf("no scorecard produced: %w", err)
	}

	if err := ledger.SaveCriteria(ctx, runID, sc.Criteria); err != nil {
		return err
	}
	if err := ledger.FinishRun(ctx, runID, sc); err != nil {
		return err
	}

	result := types.CompanyResult{
		CompanyName: name,
		Website:     site,
		Scorecard:   *sc,
		RunID:       runID,
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	formats, _ := cmd.Flags().GetStringSlice("formats")
	if err := writeReports(result, outputDir, formats); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s: overall %.1f, coverage %.2f, confidence %.2f\n",
		runID, sc.OverallScore, sc.Coverage, sc.Confidence)
	for _, f := range sc.Flags {
		fmt.Fprintf(os.Stdout, "Flag: %s\n", f)
	}
	return nil
}

// newEngine builds the scoring engine. Key precedence: flag, config file,
// loaded secrets.
func newEngine(cmd *cobra.Command) *score.Engine {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("scoring.api_key")
	}
	if apiKey == "" {
		apiKey = os.Getenv("VENDORSCORE_OPENAI_API_KEY")
	}
	apiKey = secretDefault("openai-api-key", apiKey)

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("scoring.model")
	}
	if model == "" {
		model = types.DefaultModel
	}

	cfg := types.ScoringConfig{
		ModelConfig: types.ModelConfig{
			Model:  model,
			APIKey: apiKey,
		},
		PageCharBudget:   viper.GetInt("scoring.page_char_budget"),
		CorpusCharBudget: viper.GetInt("scoring.corpus_char_budget"),
	}

	backend := &score.OpenAIBackend{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: types.DefaultTimeout},
	}
	return score.NewEngine(backend, cfg)
}

// writeReports emits the requested formats and prints each written path.
func writeReports(result types.CompanyResult, outputDir string, formats []string) error {
	w := report.NewWriter(outputDir)
	for _, f := range formats {
		var path string
		var err error
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "csv":
			path, err = w.WriteCSV(result)
		case "xlsx":
			path, err = w.WriteXLSX(result)
		case "pdf":
			path, err = w.WritePDF(result)
		default:
			return fmt.Errorf("unsupported format %q: use csv, xlsx, or pdf", f)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	}
	return nil
}
