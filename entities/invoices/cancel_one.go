package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CancelOne voids an invoice that has received no payment.
func CancelOne(w http.ResponseWriter, r *http.Request) {
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

	if err := invoice.Cancel(time.Now()); err != nil {
		utils.SendResponse(w, http.StatusConflict, "Une facture réglée, même partiellement, ne peut pas être annulée", nil, 0)
		return
	}

	filter := bson.D{{Key: "_id", Value: invoice.ID}, {Key: "amount_paid", Value: 0}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: invoice.Status},
		{Key: "updated_at", Value: invoice.UpdatedAt},
	}}}

	result, err := database.Collection(database.COLLECTION_INVOICES).UpdateOne(ctx, filter, update)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_INVOICE_IN_MONGODB, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusConflict, "La facture a été modifiée entre-temps", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", invoice, 0)
}
