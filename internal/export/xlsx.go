package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"abstractdesk/internal/domain"
)

// Sheet names of the exported workbook.
const (
	SheetAbstracts  = "Abstracts"
	SheetStatistics = "Statistics"
	SheetCategories = "Category Summary"
)

// Meta describes the filters applied to an export.
type Meta struct {
	Status     domain.AbstractStatus
	Category   domain.Category
	ExportedAt time.Time
}

// WriteWorkbook writes an XLSX workbook with the abstract rows, overall
// statistics and a per-category summary.
func WriteWorkbook(w io.Writer, abstracts []domain.AbstractWithOwner, stats *domain.Stats, meta Meta) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetAbstracts); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, SheetAbstracts, 1, toCells(columns)); err != nil {
		return err
	}
	for i := range abstracts {
		if err := setRow(f, SheetAbstracts, i+2, toCells(Row(&abstracts[i], i+1))); err != nil {
			return err
		}
	}

	if stats != nil {
		if _, err := f.NewSheet(SheetStatistics); err != nil {
			return fmt.Errorf("new sheet: %w", err)
		}
		statRows := [][]interface{}{
			{"Metric", "Value"},
			{"Total Submissions", stats.Total},
			{"Pending Review", stats.Pending},
			{"Approved", stats.Approved},
			{"Rejected", stats.Rejected},
			{"Final Submitted", stats.FinalSubmitted},
			{"Export Date", meta.ExportedAt.Format(time.RFC3339)},
			{"Filters Applied", fmt.Sprintf("Status: %s, Category: %s", orDefault(string(meta.Status), "all"), orDefault(string(meta.Category), "all"))},
			{"Records Exported", len(abstracts)},
		}
		for i, r := range statRows {
			if err := setRow(f, SheetStatistics, i+1, r); err != nil {
				return err
			}
		}

		if _, err := f.NewSheet(SheetCategories); err != nil {
			return fmt.Errorf("new sheet: %w", err)
		}
		if err := setRow(f, SheetCategories, 1, []interface{}{"Category", "Total", "Pending", "Approved", "Rejected", "Final Submitted"}); err != nil {
			return err
		}
		for i, c := range domain.Categories {
			cs := stats.ByCategory[c]
			row := []interface{}{string(c), cs.Total, cs.Pending, cs.Approved, cs.Rejected, cs.FinalSubmitted}
			if err := setRow(f, SheetCategories, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
