package render

import (
	"crm/schemas"
	"fmt"
	"io"
)

func euros(v float64) string {
	return FormatAmount(v) + " €"
}

// InvoicePDF draws a single invoice: parties, line items, totals and the
// payment history.
func InvoicePDF(w io.Writer, inv schemas.Invoice, client schemas.Client) error {
	d := newPDF("P")
	d.AddPage()

	d.SetFont("Helvetica", "B", 20)
	d.CellFormat(0, 12, d.tr("FACTURE"), "", 1, "R", false, 0, "")
	d.SetFont("Helvetica", "", 10)
	d.CellFormat(0, 6, d.tr("N° "+inv.Number), "", 1, "R", false, 0, "")
	d.CellFormat(0, 6, d.tr("Date d'émission : "+FormatDate(inv.IssueDate)), "", 1, "R", false, 0, "")
	if inv.DueDate != nil {
		d.CellFormat(0, 6, d.tr("Échéance : "+FormatDate(*inv.DueDate)), "", 1, "R", false, 0, "")
	}
	d.CellFormat(0, 6, d.tr("Statut : "+inv.Status), "", 1, "R", false, 0, "")
	d.Ln(6)

	d.SetFont("Helvetica", "B", 11)
	d.CellFormat(0, 6, d.tr("Facturé à"), "", 1, "L", false, 0, "")
	d.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		client.Company,
		client.ContactName,
		client.Address.Street,
		joinNonEmpty(" ", client.Address.ZipCode, client.Address.City),
		client.Address.Country,
		client.Email,
		vatLine(client.VATNumber),
	} {
		if line != "" {
			d.CellFormat(0, 5, d.tr(line), "", 1, "L", false, 0, "")
		}
	}
	d.Ln(8)

	columns := []Column{
		{Header: "Description"},
		{Header: "Quantité", Width: 25, Numeric: true},
		{Header: "Prix unitaire", Width: 35, Numeric: true},
		{Header: "Total HT", Width: 35, Numeric: true},
	}
	widths := columnWidths(d, columns)
	d.tableHeader(columns, widths)
	for _, item := range inv.Items {
		if d.GetY()+pdfRowHeight > d.bottom() {
			d.AddPage()
			d.tableHeader(columns, widths)
		}
		d.tableRow(columns, widths, []string{
			item.Description,
			fmt.Sprintf("%g", item.Quantity),
			euros(item.UnitPrice),
			euros(item.Total),
		}, false)
	}
	d.Ln(4)

	labelWidth := widths[0] + widths[1] + widths[2]
	total := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		d.SetFont("Helvetica", style, 10)
		d.CellFormat(labelWidth, 6, d.tr(label), "", 0, "R", false, 0, "")
		d.CellFormat(widths[3], 6, d.tr(value), "", 1, "R", false, 0, "")
	}
	total("Sous-total HT", euros(inv.Subtotal), false)
	total(fmt.Sprintf("TVA (%g %%)", inv.TaxRate), euros(inv.TaxAmount), false)
	total("Total TTC", euros(inv.Total), true)
	total("Déjà réglé", euros(inv.AmountPaid), false)
	total("Reste à payer", euros(inv.Balance), true)

	if len(inv.Payments) > 0 {
		d.Ln(8)
		d.SetFont("Helvetica", "B", 11)
		d.CellFormat(0, 6, d.tr("Règlements"), "", 1, "L", false, 0, "")
		paymentColumns := []Column{
			{Header: "Date", Width: 35},
			{Header: "Mode", Width: 40},
			{Header: "Référence"},
			{Header: "Montant", Width: 35, Numeric: true},
		}
		paymentWidths := columnWidths(d, paymentColumns)
		d.tableHeader(paymentColumns, paymentWidths)
		for _, payment := range inv.Payments {
			d.tableRow(paymentColumns, paymentWidths, []string{
				FormatDate(payment.PaidAt),
				payment.Method,
				payment.Reference,
				euros(payment.Amount),
			}, false)
		}
	}

	if inv.Notes != "" {
		d.Ln(8)
		d.SetFont("Helvetica", "", 9)
		d.MultiCell(0, 5, d.tr(inv.Notes), "", "L", false)
	}

	return d.Output(w)
}

func vatLine(vat string) string {
	if vat == "" {
		return ""
	}
	return "TVA intracommunautaire : " + vat
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
