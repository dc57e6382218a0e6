package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/utils"
	"net/http"
	"time"
)

func GetOne(w http.ResponseWriter, r *http.Request) {
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

	invoice.RefreshStatus(time.Now())

	utils.SendResponse(w, http.StatusOK, "", invoice, 0)
}
