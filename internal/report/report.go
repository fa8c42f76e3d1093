// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report exports a completed scoring result to CSV, XLSX, and PDF
// files. Writers are pure output: nothing in the pipeline reads them back.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/vendorscore/pkg/types"
)

// columns is the shared header row for the tabular formats.
var columns = []string{"Criterion", "Category", "Score", "Max", "Weight", "Rationale"}

// Writer emits report files into OutputDir, creating it on first use.
type Writer struct {
	OutputDir string
}

// NewWriter builds a Writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{OutputDir: outputDir}
}

func (w *Writer) prepare(result types.CompanyResult, ext string) (string, error) {
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	name := slugify(result.CompanyName)
	if name == "" {
		name = "company"
	}
	return filepath.Join(w.OutputDir, name+"_scorecard."+ext), nil
}

// WriteCSV writes the criterion table as a comma-delimited file and
// returns the path.
func (w *Writer) WriteCSV(result types.CompanyResult) (string, error) {
	path, err := w.prepare(result, "csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, c := range result.Scorecard.Criteria {
		row := []string{
			c.Name,
			c.Category,
			formatFloat(c.Score),
			formatFloat(c.MaxScore),
			formatFloat(c.Weight),
			c.Rationale,
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}
	return path, nil
}

// WriteXLSX writes the criterion table as a single-sheet workbook and
// returns the path.
func (w *Writer) WriteXLSX(result types.CompanyResult) (string, error) {
	path, err := w.prepare(result, "xlsx")
	if err != nil {
		return "", err
	}

	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Scorecard"
	idx, err := wb.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("creating sheet: %w", err)
	}
	wb.SetActiveSheet(idx)
	wb.DeleteSheet("Sheet1")

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for i, c := range result.Scorecard.Criteria {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("row coordinates: %w", err)
		}
		row := []any{c.Name, c.Category, c.Score, c.MaxScore, c.Weight, c.Rationale}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// WritePDF writes a paginated document: a summary header followed by each
// criterion's scores and free-text rationale. Returns the path.
func (w *Writer) WritePDF(result types.CompanyResult) (string, error) {
	path, err := w.prepare(result, "pdf")
	if err != nil {
		return "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "Company Scorecard: "+result.CompanyName, "", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall score: %s", formatFloat(result.Scorecard.OverallScore)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Coverage: %s", formatFloat(result.Scorecard.Coverage)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Confidence: %s", formatFloat(result.Scorecard.Confidence)), "", 1, "", false, 0, "")
	if len(result.Scorecard.Flags) > 0 {
		pdf.CellFormat(0, 8, "Flags: "+strings.Join(result.Scorecard.Flags, ", "), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, c := range result.Scorecard.Criteria {
		line := fmt.Sprintf("%s | %s: %s/%s (w=%s)",
			c.Category, c.Name, formatFloat(c.Score), formatFloat(c.MaxScore), formatFloat(c.Weight))
		pdf.MultiCell(0, 6, line, "", "", false)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 6, "  "+c.Rationale, "", "", false)
		pdf.SetTextColor(0, 0, 0)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// formatFloat renders numbers without trailing zero noise.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// slugify reduces a company name to a filesystem-safe file stem.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
