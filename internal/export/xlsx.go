package export

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	maxSheetNameLen = 31
	maxSheetRows    = excelize.TotalRows
	defaultSheet    = "Sheet1"
)

// WriteWorkbook writes every table to its own sheet of an xlsx workbook.
// Tables larger than a worksheet allows are truncated with a warning.
func WriteWorkbook(path string, tables []Table, log zerolog.Logger) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("failed to rename sheet for %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet for %s: %w", t.Name, err)
		}

		if err := writeSheet(f, sheet, t, log); err != nil {
			return err
		}
	}
	if len(tables) > 0 {
		f.SetActiveSheet(0)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table, log zerolog.Logger) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer for %s: %w", sheet, err)
	}

	rows := t.Rows
	if len(rows)+1 > maxSheetRows {
		log.Warn().
			Str("table", t.Name).
			Int("rows", len(rows)).
			Int("limit", maxSheetRows-1).
			Msg("table exceeds worksheet row limit, truncating sheet")
		rows = rows[:maxSheetRows-1]
	}

	if err := sw.SetRow("A1", toCells(t.Header, false)); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row, true)); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, sheet, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %s: %w", sheet, err)
	}
	return nil
}

// toCells converts numeric strings to numbers so the workbook stays usable for analysis.
func toCells(row []string, numeric bool) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		if numeric {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[i] = n
				continue
			}
		}
		cells[i] = v
	}
	return cells
}

func sheetName(name string) string {
	if len(name) > maxSheetNameLen {
		return name[:maxSheetNameLen]
	}
	return name
}
