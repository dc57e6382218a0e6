package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// deleteProblem answers why invoice cannot be deleted, or 0 when it can.
// Anything already issued is cancelled instead.
func deleteProblem(invoice schemas.Invoice, found bool) (int, string) {
	if !found {
		return http.StatusNotFound, "Facture introuvable"
	}
	if invoice.Status != schemas.INVOICE_STATUS_DRAFT {
		return http.StatusConflict, "Seule une facture brouillon peut être supprimée, annulez-la plutôt"
	}
	return 0, ""
}

func DeleteOne(w http.ResponseWriter, r *http.Request) {
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
	if status, problem := deleteProblem(invoice, found); status != 0 {
		utils.SendResponse(w, status, problem, nil, 0)
		return
	}

	// the status condition catches an invoice sent in between
	filter := bson.D{{Key: "_id", Value: id}, {Key: "status", Value: schemas.INVOICE_STATUS_DRAFT}}
	result, err := database.Collection(database.COLLECTION_INVOICES).DeleteOne(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_DELETE_INVOICE_FROM_MONGODB, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.SendResponse(w, http.StatusConflict, "La facture a été modifiée entre-temps", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
