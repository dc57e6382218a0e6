package render

import (
	"bytes"
	"crm/schemas"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:       "Opportunités",
		GeneratedAt: time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC),
		Columns: []Column{
			{Header: "Titre"},
			{Header: "Étape", Width: 30},
			{Header: "Montant", Width: 30, Numeric: true},
		},
		Rows: [][]string{
			{"Refonte site", schemas.STAGE_PROPOSAL, "1200.50"},
			{"Licences", schemas.STAGE_WON, "799.50"},
		},
	}
}

func TestTotals(t *testing.T) {
	totals := sampleTable().Totals()

	assert.Equal(t, []string{"Total", "", "2000.00"}, totals)
}

func TestTotalsWithoutNumericColumns(t *testing.T) {
	table := Table{Columns: []Column{{Header: "Nom"}}, Rows: [][]string{{"a"}}}

	assert.Nil(t, table.Totals())
}

func TestCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, CSV(buf, sampleTable()))

	content := buf.String()
	require.True(t, strings.HasPrefix(content, "\ufeff"))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\ufeff")))
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"Titre", "Étape", "Montant"}, records[0])
	assert.Equal(t, "Refonte site", records[1][0])
	assert.Equal(t, []string{"Total", "", "2000.00"}, records[3])
}

func TestExcel(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Excel(buf, sampleTable()))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Opportunités", title)

	header, err := f.GetCellValue(sheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Étape", header)

	label, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Refonte site", label)

	total, err := f.GetCellValue(sheetName, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}

func TestPDF(t *testing.T) {
	table := sampleTable()
	for i := 0; i < 60; i++ {
		table.Rows = append(table.Rows, []string{strings.Repeat("Ligne très longue ", 10), schemas.STAGE_DISCOVERY, "10"})
	}

	buf := &bytes.Buffer{}
	require.NoError(t, PDF(buf, table))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestInvoicePDF(t *testing.T) {
	due := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	inv := schemas.Invoice{
		Number:    "FAC-202601-ABCDEF",
		TaxRate:   20,
		IssueDate: time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		DueDate:   &due,
		Items:     []schemas.LineItem{{Description: "Audit", Quantity: 2, UnitPrice: 450}},
		Payments:  []schemas.Payment{{Amount: 100, Method: schemas.PAYMENT_METHOD_TRANSFER, PaidAt: due}},
		Notes:     "Merci de votre confiance.",
	}
	inv.ComputeTotals(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))

	client := schemas.Client{Company: "Société Générale d'Études", ContactName: "Léa Martin", Address: schemas.Address{City: "Lyon", ZipCode: "69002"}}

	buf := &bytes.Buffer{}
	require.NoError(t, InvoicePDF(buf, inv, client))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "docx", sampleTable())

	assert.Error(t, err)
}

func TestFileNameAndContentType(t *testing.T) {
	now := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "rapport-tickets-20260114.csv", FileName("tickets", schemas.REPORT_FORMAT_CSV, now))
	assert.Equal(t, "application/pdf", ContentType(schemas.REPORT_FORMAT_PDF))
	assert.Contains(t, ContentType(schemas.REPORT_FORMAT_XLSX), "spreadsheetml")
}
