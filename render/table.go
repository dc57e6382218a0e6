// Package render draws tabular CRM data as PDF, Excel or CSV documents.
package render

import (
	"crm/schemas"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

type Column struct {
	Header string
	// Width in millimetres for PDF output; zero shares the free space.
	Width float64
	// Numeric columns are right aligned, written as numbers in Excel and
	// summed into the totals row.
	Numeric bool
}

type Table struct {
	Title       string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]string
}

// Totals sums numeric columns. Non numeric cells are empty except the
// first, which carries the label.
func (t Table) Totals() []string {
	totals := make([]string, len(t.Columns))
	hasNumeric := false

	for c, col := range t.Columns {
		if !col.Numeric {
			continue
		}
		hasNumeric = true
		sum := 0.0
		for _, row := range t.Rows {
			if c < len(row) {
				if v, err := strconv.ParseFloat(row[c], 64); err == nil {
					sum += v
				}
			}
		}
		totals[c] = FormatAmount(sum)
	}

	if !hasNumeric {
		return nil
	}
	if len(totals) > 0 && totals[0] == "" {
		totals[0] = "Total"
	}
	return totals
}

func FormatAmount(v float64) string {
	return strconv.FormatFloat(schemas.RoundCents(v), 'f', 2, 64)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

func ContentType(format string) string {
	switch format {
	case schemas.REPORT_FORMAT_PDF:
		return "application/pdf"
	case schemas.REPORT_FORMAT_XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case schemas.REPORT_FORMAT_CSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// FileName builds the attachment name, e.g. "rapport-tickets-20260114.csv".
func FileName(reportType, format string, now time.Time) string {
	return fmt.Sprintf("rapport-%s-%s.%s", strings.ToLower(reportType), now.Format("20060102"), format)
}

// Write renders t in format.
func Write(w io.Writer, format string, t Table) error {
	switch format {
	case schemas.REPORT_FORMAT_PDF:
		return PDF(w, t)
	case schemas.REPORT_FORMAT_XLSX:
		return Excel(w, t)
	case schemas.REPORT_FORMAT_CSV:
		return CSV(w, t)
	}
	return fmt.Errorf("unknown report format %q", format)
}
