package pipeline

import (
	"encoding/csv"
	"io"
	"strings"

	"batidoc/internal"
)

// SniffDelimiter guesses the field separator of a CSV export. Regional
// spreadsheet tools emit semicolons, some systems tabs; plain comma is the
// last resort.
func SniffDelimiter(text string) rune {
	switch {
	case strings.Contains(text, ";") && !strings.Contains(text, ","):
		return ';'
	case strings.Contains(text, "\t"):
		return '\t'
	default:
		return ','
	}
}

// ParseCSV reads CSV text into a RawTable, tolerating a UTF-8 BOM, ragged
// rows and loose quoting.
func ParseCSV(text string) (internal.RawTable, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = SniffDelimiter(text)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	table := internal.RawTable{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		table = append(table, record)
	}
	return table, nil
}
