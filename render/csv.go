package render

import (
	"encoding/csv"
	"io"
)

// utf8BOM makes spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// CSV writes a semicolon separated file: header, rows, then totals.
func CSV(w io.Writer, t Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Header
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}

	if totals := t.Totals(); totals != nil {
		if err := writer.Write(totals); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
