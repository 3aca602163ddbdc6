package pipeline

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"batidoc/internal"
)

// ReadWorkbook loads every sheet of an xlsx blob into one RawTable, sheets
// concatenated in workbook order. Cell values come back already rendered as
// strings by excelize. Later sheets usually repeat the column titles, so
// header-looking rows past the first sheet are dropped; otherwise they would
// surface as data items named after the title cell.
func ReadWorkbook(content []byte) (internal.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := internal.RawTable{}
	for sheetIdx, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if sheetIdx > 0 {
				if _, matched := ClassifyHeader(row); matched >= headerMinCells {
					continue
				}
			}
			table = append(table, row)
		}
	}
	return table, nil
}

// SampleRows returns the first n rows of a table for structure analysis.
func SampleRows(table internal.RawTable, n int) internal.RawTable {
	if len(table) <= n {
		return table
	}
	return table[:n]
}
