package render

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfRowHeight = 7.0
	pdfMargin    = 10.0
)

type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDF(orientation string) *pdfDoc {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)

	doc := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	return doc
}

// fit shortens text with an ellipsis until it fits in width.
func (d *pdfDoc) fit(text string, width float64) string {
	text = d.tr(text)
	if d.GetStringWidth(text) <= width-2 {
		return text
	}
	// translated text is single-byte cp1252, so byte slicing is safe
	for len(text) > 0 && d.GetStringWidth(text+"...") > width-2 {
		text = text[:len(text)-1]
	}
	return text + "..."
}

func (d *pdfDoc) bottom() float64 {
	_, pageHeight := d.GetPageSize()
	return pageHeight - 2*pdfMargin
}

func columnWidths(d *pdfDoc, columns []Column) []float64 {
	pageWidth, _ := d.GetPageSize()
	available := pageWidth - 2*pdfMargin

	fixed, flexible := 0.0, 0
	for _, col := range columns {
		if col.Width > 0 {
			fixed += col.Width
		} else {
			flexible++
		}
	}

	share := 0.0
	if flexible > 0 && available > fixed {
		share = (available - fixed) / float64(flexible)
	}

	widths := make([]float64, len(columns))
	for i, col := range columns {
		widths[i] = col.Width
		if widths[i] == 0 {
			widths[i] = share
		}
	}
	return widths
}

func (d *pdfDoc) tableHeader(columns []Column, widths []float64) {
	d.SetFont("Helvetica", "B", 9)
	d.SetFillColor(31, 78, 121)
	d.SetTextColor(255, 255, 255)
	for i, col := range columns {
		d.CellFormat(widths[i], pdfRowHeight, d.fit(col.Header, widths[i]), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)
	d.SetTextColor(0, 0, 0)
	d.SetFont("Helvetica", "", 8)
}

func (d *pdfDoc) tableRow(columns []Column, widths []float64, row []string, fill bool) {
	for i := range columns {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		align := "L"
		if columns[i].Numeric {
			align = "R"
		}
		d.CellFormat(widths[i], pdfRowHeight, d.fit(value, widths[i]), "1", 0, align, fill, 0, "")
	}
	d.Ln(-1)
}

// PDF draws t on landscape A4 pages, repeating the header row on each page.
func PDF(w io.Writer, t Table) error {
	d := newPDF("L")
	d.AddPage()

	d.SetFont("Helvetica", "B", 16)
	d.CellFormat(0, 10, d.tr(t.Title), "", 1, "L", false, 0, "")
	d.SetFont("Helvetica", "", 9)
	d.CellFormat(0, 6, d.tr(fmt.Sprintf("Généré le %s - %d ligne(s)", FormatDate(t.GeneratedAt), len(t.Rows))), "", 1, "L", false, 0, "")
	d.Ln(3)

	widths := columnWidths(d, t.Columns)
	d.tableHeader(t.Columns, widths)

	d.SetFillColor(235, 241, 247)
	for r, row := range t.Rows {
		if d.GetY()+pdfRowHeight > d.bottom() {
			d.AddPage()
			d.tableHeader(t.Columns, widths)
			d.SetFillColor(235, 241, 247)
		}
		d.tableRow(t.Columns, widths, row, r%2 == 1)
	}

	if totals := t.Totals(); totals != nil {
		if d.GetY()+pdfRowHeight > d.bottom() {
			d.AddPage()
		}
		d.SetFont("Helvetica", "B", 8)
		d.tableRow(t.Columns, widths, totals, false)
	}

	return d.Output(w)
}
