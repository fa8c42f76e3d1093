// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vendorscore/internal/store"
	"github.com/pdiddy/vendorscore/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Re-export report files for a recorded run",
	Long: `Report rebuilds CSV, XLSX, or PDF report files from the ledger without
re-crawling or re-scoring. The run must have finished with a scorecard.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("output-dir", "reports", "directory for report files")
	reportCmd.Flags().StringSlice("formats", []string{"csv", "xlsx", "pdf"}, "report formats: csv, xlsx, pdf")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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
	if run.FinishedAt == nil {
		return fmt.Errorf("run %s has no scorecard", run.ID)
	}
	criteria, err := ledger.RunCriteria(ctx, run.ID)
	if err != nil {
		return err
	}

	result := types.CompanyResult{
		CompanyName: run.CompanyName,
		Website:     run.Website,
		RunID:       run.ID,
		Scorecard: types.Scorecard{
			OverallScore: run.OverallScore,
			Coverage:     run.Coverage,
			Confidence:   run.Confidence,
			Flags:        run.Flags,
			Criteria:     criteria,
		},
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	formats, _ := cmd.Flags().GetStringSlice("formats")
	return writeReports(result, outputDir, formats)
}
