package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// applyUpdate changes invoice in place and recomputes its totals.
func applyUpdate(invoice *schemas.Invoice, input schemas.InvoiceInput, now time.Time) string {
	if input.ClientID != nil {
		clientID, ok := utils.OptionalObjectID(*input.ClientID)
		if !ok || clientID.IsZero() {
			return "Identifiant de client invalide"
		}
		invoice.ClientID = clientID
	}
	if input.OpportunityID != nil {
		opportunityID, ok := utils.OptionalObjectID(*input.OpportunityID)
		if !ok {
			return "Identifiant d'opportunité invalide"
		}
		invoice.OpportunityID = opportunityID
	}
	if input.Items != nil {
		invoice.Items = *input.Items
	}
	if input.TaxRate != nil {
		invoice.TaxRate = *input.TaxRate
	}
	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if invoice.DueDate != nil && invoice.DueDate.Before(invoice.IssueDate) {
		return "L'échéance ne peut pas précéder la date d'émission"
	}

	if err := invoice.Validate(); err != nil {
		return lineItemProblem(err)
	}

	invoice.ComputeTotals(now)
	return ""
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de facture invalide", nil, 0)
		return
	}

	input := schemas.InvoiceInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
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
	if invoice.IsLocked() {
		utils.SendResponse(w, http.StatusConflict, "Une facture payée ou annulée ne peut plus être modifiée", nil, 0)
		return
	}

	previousUpdate := invoice.UpdatedAt
	if problem := applyUpdate(&invoice, input, time.Now()); problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	// updated_at guards against a payment recorded in between
	filter := bson.D{{Key: "_id", Value: invoice.ID}, {Key: "updated_at", Value: previousUpdate}}
	result, err := database.Collection(database.COLLECTION_INVOICES).ReplaceOne(ctx, filter, invoice)
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
