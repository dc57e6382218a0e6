package reports

import (
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestEveryReportTypeHasADefinition(t *testing.T) {
	for _, reportType := range schemas.ReportTypes {
		report, ok := definitions[reportType]
		require.True(t, ok, reportType)
		assert.NotEmpty(t, report.columns)
		assert.NotNil(t, report.fetch)
	}
	assert.Len(t, definitions, len(schemas.ReportTypes))
}

func TestRowsMatchColumns(t *testing.T) {
	clients := names{}

	assert.Len(t, prospectRow(schemas.Prospect{}, clients), len(prospectColumns))
	assert.Len(t, opportunityRow(schemas.Opportunity{}, clients), len(opportunityColumns))
	assert.Len(t, clientRow(schemas.Client{}, clients), len(clientColumns))
	assert.Len(t, ticketRow(schemas.Ticket{}, clients), len(ticketColumns))
	assert.Len(t, invoiceRow(schemas.Invoice{}, clients), len(invoiceColumns))
}

func TestOpportunityRow(t *testing.T) {
	client := bson.NewObjectID()
	due := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	row := opportunityRow(schemas.Opportunity{
		Title:             "Refonte",
		ClientID:          client,
		Stage:             schemas.STAGE_PROPOSAL,
		Probability:       40,
		Amount:            2500,
		ExpectedCloseDate: &due,
	}, names{client: "ACME"})

	assert.Equal(t, []string{"Refonte", "ACME", schemas.STAGE_PROPOSAL, "40 %", "2500.00", "1000.00", "30/06/2026"}, row)
}

func TestInvoiceRowShowsOverdue(t *testing.T) {
	client := bson.NewObjectID()
	due := time.Now().AddDate(0, -1, 0)

	row := invoiceRow(schemas.Invoice{
		Number:    "FAC-202601-ABCDEF",
		ClientID:  client,
		Status:    schemas.INVOICE_STATUS_SENT,
		IssueDate: due.AddDate(0, -1, 0),
		DueDate:   &due,
		Total:     1680,
		Balance:   1680,
	}, names{client: "ACME"})

	assert.Equal(t, schemas.INVOICE_STATUS_OVERDUE, row[2])
}

func TestNamesFallBackToHex(t *testing.T) {
	unknown := bson.NewObjectID()

	assert.Equal(t, unknown.Hex(), names{}.of(unknown))
	assert.Empty(t, names{}.of(bson.NilObjectID))
}

func TestSubtitle(t *testing.T) {
	period := utils.ParsePeriod(url.Values{"from": {"2026-01-01"}, "until": {"2026-03-31"}})

	assert.Equal(t, "Rapport des factures du 01/01/2026 au 31/03/2026", subtitle("Rapport des factures", period))
	assert.Equal(t, "Rapport des factures", subtitle("Rapport des factures", utils.Period{}))
}

func TestGetReportRejectsUnknownTypeAndFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/reports/budgets", nil)
	req.SetPathValue("type", "budgets")
	rec := httptest.NewRecorder()

	GetReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/reports/tickets?format=docx", nil)
	req.SetPathValue("type", schemas.REPORT_TYPE_TICKETS)
	rec = httptest.NewRecorder()

	GetReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
