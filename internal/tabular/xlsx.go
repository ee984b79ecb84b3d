package tabular

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX decodes the first non-empty worksheet of a workbook.
func ReadXLSX(r io.Reader) (core.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return core.Table{}, fmt.Errorf("%w: open workbook: %w", ErrNotTabular, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return core.Table{}, fmt.Errorf("%w: sheet %q: %w", ErrNotTabular, sheet, err)
		}
		if t, err := newTable(rows); err == nil {
			return t, nil
		}
	}
	return core.Table{}, ErrEmptyFile
}

// WriteXLSX writes a header and rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	} else {
		sheet = "Sheet1"
	}

	for i, record := range append([][]string{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		values := make([]any, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
