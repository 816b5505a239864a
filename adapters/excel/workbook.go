// Package excel exports the flat result tables as one workbook, a convenience
// surface for analysts who consume spreadsheets instead of the rendered
// report.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"diapipe/internal/artifact"
)

// WorkbookExporter writes one sheet per result table.
type WorkbookExporter struct {
	path string
}

// NewWorkbookExporter creates an exporter targeting the given .xlsx path.
func NewWorkbookExporter(path string) *WorkbookExporter {
	return &WorkbookExporter{path: path}
}

// Export writes every table to its own sheet, in order.
func (e *WorkbookExporter) Export(tables []artifact.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return err
		}
	}

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t artifact.Table) error {
	for col, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for row, values := range t.Rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetName derives a sheet title from the table file name. Excel caps sheet
// names at 31 characters.
func sheetName(fileName string) string {
	name := strings.TrimSuffix(fileName, ".csv")
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
