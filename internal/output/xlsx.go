package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/inodb/vibe-mutstrat/internal/mutation"
	"github.com/inodb/vibe-mutstrat/internal/stratify"
)

// GeneTypeSheet is the sheet name of the gene type matrix.
const GeneTypeSheet = "gene_type"

// SheetName returns the workbook sheet name of a count table file, e.g.
// "aa_onco_mut_type_cts.txt" becomes "aa_onco".
func SheetName(file string) string {
	return strings.TrimSuffix(file, "_mut_type_cts.txt")
}

// WriteWorkbook saves report as an XLSX workbook at path, one sheet per
// count table followed by the gene type matrix.
func WriteWorkbook(path string, report *stratify.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, rf := range ReportFiles {
		s := report.Stratum(rf.Stratum)
		if s == nil {
			return fmt.Errorf("report has no %s stratum", rf.Stratum)
		}
		sheet := SheetName(rf.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if err := writeTableSheet(f, sheet, s.Table(rf.Taxonomy)); err != nil {
			return err
		}
	}

	if report.GeneTypes != nil {
		if _, err := f.NewSheet(GeneTypeSheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", GeneTypeSheet, err)
		}
		if err := writeMatrixSheet(f, GeneTypeSheet, report.GeneTypes); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeTableSheet(f *excelize.File, sheet string, ct *mutation.CountTable) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"category", "count"}); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, c := range ct.Categories() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{string(c), ct.Count(c)}); err != nil {
			return fmt.Errorf("write %s row: %w", sheet, err)
		}
	}
	return nil
}

func writeMatrixSheet(f *excelize.File, sheet string, m *stratify.RoleMatrix) error {
	cats := m.Taxonomy().Categories()

	header := []any{"gene_type"}
	for _, c := range cats {
		header = append(header, string(c))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, role := range m.Roles() {
		ct := m.Table(role)
		row := []any{string(role)}
		for _, c := range cats {
			row = append(row, ct.Count(c))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row: %w", sheet, err)
		}
	}
	return nil
}
