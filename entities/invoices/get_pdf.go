package invoices

import (
	"bytes"
	"crm/database"
	"crm/middlewares"
	"crm/render"
	"crm/schemas"
	"crm/utils"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func GetPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de facture invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	invoice, found, err := findInvoice(ctx, user, id)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_INVOICE_BY_ID_IN_MONGODB, err)
		return
	}
	if !found {
		utils.SendResponse(w, http.StatusNotFound, "Facture introuvable", nil, 0)
		return
	}

	client, err := findClient(ctx, invoice.ClientID)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MONGODB, err)
		return
	}

	invoice.RefreshStatus(time.Now())

	// rendered to memory first so a failure can still answer with JSON
	document := &bytes.Buffer{}
	if err := render.InvoicePDF(document, invoice, client); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_RENDER_INVOICE_PDF, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(schemas.REPORT_FORMAT_PDF))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.Number+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(document.Len()))
	w.WriteHeader(http.StatusOK)
	document.WriteTo(w)
}
