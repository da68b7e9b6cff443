// Package report renders a run summary as an XLSX workbook.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/rpattn/csvgate/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	filesSheet  = "Files"
	issuesSheet = "Issues"
)

var (
	filesHeader  = []any{"File", "Verdict", "Reason", "Destination", "Good rows", "Bad rows", "Error"}
	issuesHeader = []any{"File", "Row_num_list", "Type_of_issue"}
)

// FileName is the workbook name for a run.
func FileName(summary domain.RunSummary) string {
	return fmt.Sprintf("report_%s.xlsx", summary.RunID)
}

// Write saves the workbook for summary into dir and returns its path.
func Write(dir string, summary domain.RunSummary) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with Sheet1; rename it rather than leave an empty tab.
	if err := f.SetSheetName(f.GetSheetName(0), filesSheet); err != nil {
		return "", fmt.Errorf("failed to name files sheet: %w", err)
	}
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return "", fmt.Errorf("failed to create issues sheet: %w", err)
	}

	if err := writeRow(f, filesSheet, 1, filesHeader); err != nil {
		return "", err
	}
	if err := writeRow(f, issuesSheet, 1, issuesHeader); err != nil {
		return "", err
	}

	fileRow, issueRow := 2, 2
	for _, result := range summary.Files {
		good, bad := "", ""
		if result.Artifacts != nil {
			good = fmt.Sprint(result.Artifacts.GoodRows)
			bad = fmt.Sprint(result.Artifacts.BadRows)
		}
		values := []any{
			result.Verdict.File.Name,
			result.Verdict.Label(),
			string(result.Verdict.Reason),
			result.Verdict.Destination,
			good,
			bad,
			result.ErrorMessage(),
		}
		if err := writeRow(f, filesSheet, fileRow, values); err != nil {
			return "", err
		}
		fileRow++

		if result.Artifacts == nil {
			continue
		}
		for _, issue := range result.Artifacts.Issues {
			if err := writeRow(f, issuesSheet, issueRow, []any{result.Verdict.File.Name, issue.RowNumber, string(issue.Reason)}); err != nil {
				return "", err
			}
			issueRow++
		}
	}

	if err := styleHeader(f); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(summary))
	if err := f.SaveAs(path); err != nil {
		return "", &domain.IOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for sheet, width := range map[string]int{filesSheet: len(filesHeader), issuesSheet: len(issuesHeader)} {
		last, err := excelize.CoordinatesToCellName(width, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header range: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	return nil
}
