package schemas

import "slices"

const (
	REPORT_TYPE_PROSPECTS     = "prospects"
	REPORT_TYPE_OPPORTUNITIES = "opportunities"
	REPORT_TYPE_CLIENTS       = "clients"
	REPORT_TYPE_TICKETS       = "tickets"
	REPORT_TYPE_INVOICES      = "invoices"

	REPORT_FORMAT_PDF  = "pdf"
	REPORT_FORMAT_XLSX = "xlsx"
	REPORT_FORMAT_CSV  = "csv"
)

var ReportTypes = []string{
	REPORT_TYPE_PROSPECTS,
	REPORT_TYPE_OPPORTUNITIES,
	REPORT_TYPE_CLIENTS,
	REPORT_TYPE_TICKETS,
	REPORT_TYPE_INVOICES,
}

var ReportFormats = []string{REPORT_FORMAT_PDF, REPORT_FORMAT_XLSX, REPORT_FORMAT_CSV}

func IsValidReportType(reportType string) bool {
	return slices.Contains(ReportTypes, reportType)
}

func IsValidReportFormat(format string) bool {
	return slices.Contains(ReportFormats, format)
}
