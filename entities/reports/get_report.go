package reports

import (
	"bytes"
	"crm/database"
	"crm/render"
	"crm/schemas"
	"crm/utils"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// subtitle describes the period under the report title.
func subtitle(title string, period utils.Period) string {
	switch {
	case !period.From.IsZero() && !period.Until.IsZero():
		return fmt.Sprintf("%s du %s au %s", title, render.FormatDate(period.From), render.FormatDate(period.Until))
	case !period.From.IsZero():
		return fmt.Sprintf("%s depuis le %s", title, render.FormatDate(period.From))
	case !period.Until.IsZero():
		return fmt.Sprintf("%s jusqu'au %s", title, render.FormatDate(period.Until))
	}
	return title
}

// GetReport exports one record type as a PDF, Excel or CSV attachment.
func GetReport(w http.ResponseWriter, r *http.Request) {
	reportType := r.PathValue("type")
	report, ok := definitions[reportType]
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Type de rapport invalide", nil, 0)
		return
	}

	params := r.URL.Query()

	format := params.Get("format")
	if format == "" {
		format = schemas.REPORT_FORMAT_PDF
	}
	if !schemas.IsValidReportFormat(format) {
		utils.SendResponse(w, http.StatusBadRequest, "Format de rapport invalide", nil, 0)
		return
	}

	period := utils.ParsePeriod(params)
	filter := period.Filter(report.dateField)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	clients := names{}
	if report.clientNames {
		var err error
		clients, err = loadClientNames(ctx)
		if err != nil {
			utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_REPORT_DATA_IN_MONGODB, err)
			return
		}
	}

	rows, err := report.fetch(ctx, report.collection, filter, report.sort, clients)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_REPORT_DATA_IN_MONGODB, err)
		return
	}

	now := time.Now()
	table := render.Table{
		Title:       subtitle(report.title, period),
		GeneratedAt: now,
		Columns:     report.columns,
		Rows:        rows,
	}

	document := &bytes.Buffer{}
	if err := render.Write(document, format, table); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_RENDER_REPORT, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.FileName(reportType, format, now)))
	w.Header().Set("Content-Length", strconv.Itoa(document.Len()))
	w.WriteHeader(http.StatusOK)
	document.WriteTo(w)
}
