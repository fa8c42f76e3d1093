// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vendorscore/internal/store"
	"github.com/pdiddy/vendorscore/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run ledger",
	Long: `Runs lists past scoring runs from the SQLite ledger. Use the show
subcommand with a run ID to see the stored scorecard in full.`,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run with its per-criterion scores",
	RunE:  runRunsShow,
}

func init() {
	runsShowCmd.Flags().Bool("json", false, "output as JSON")

	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	ledger, err := store.New(dbPath(cmd))
	if err != nil {
		return err
	}
	defer ledger.Close()

	runs, err := ledger.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-19s  %-8s  %s\n",
		"Run", "Company", "Started", "Overall", "Flags")
	for _, r := range runs {
		status := "-"
		if r.FinishedAt != nil {
			status = fmt.Sprintf("%.1f", r.OverallScore)
		}
		company := r.CompanyName
		if len(company) > 24 {
			company = company[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-19s  %-8s  %s\n",
			r.ID, company, r.StartedAt.Format("2006-01-02 15:04:05"),
			status, strings.Join(r.Flags, "; "))
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one run ID")
	}

	ledger, err := store.New(dbPath(cmd))
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx := context.Background()
	run, err := ledger.GetRun(ctx, args[0])
	if err != nil {
		return err
	}
	criteria, err := ledger.RunCriteria(ctx, run.ID)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run      *types.Run             `json:"run"`
			Criteria []types.CriterionScore `json:"criteria"`
		}{run, criteria})
	}

	fmt.Fprintf(os.Stdout, "Run:      %s\n", run.ID)
	fmt.Fprintf(os.Stdout, "Company:  %s\n", run.CompanyName)
	if run.Website != "" {
		fmt.Fprintf(os.Stdout, "Website:  %s\n", run.Website)
	}
	fmt.Fprintf(os.Stdout, "Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Fprintf(os.Stdout, "Finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(os.Stdout, "Overall:  %.1f (coverage %.2f, confidence %.2f)\n",
			run.OverallScore, run.Coverage, run.Confidence)
	}
	for _, f := range run.Flags {
		fmt.Fprintf(os.Stdout, "Flag:     %s\n", f)
	}

	if len(criteria) > 0 {
		fmt.Fprintf(os.Stdout, "\n%-36s  %-24s  %-9s  %s\n", "Criterion", "Category", "Score", "Rationale")
		for _, c := range criteria {
			rationale := c.Rationale
			if len(rationale) > 60 {
				rationale = rationale[:57] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-36s  %-24s  %4.1f/%-4.1f  %s\n",
				c.Name, c.Category, c.Score, c.MaxScore, rationale)
		}
	}
	return nil
}
