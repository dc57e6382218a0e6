package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/notifications"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func paymentProblem(err error) (int, string) {
	switch {
	case errors.Is(err, schemas.ErrInvoiceLocked):
		return http.StatusConflict, "Cette facture est déjà payée ou annulée"
	case errors.Is(err, schemas.ErrInvalidPaymentAmount):
		return http.StatusBadRequest, "Le montant du paiement doit être positif"
	case errors.Is(err, schemas.ErrInvalidPaymentMethod):
		return http.StatusBadRequest, "Moyen de paiement invalide"
	case errors.Is(err, schemas.ErrPaymentExceedsBalance):
		return http.StatusBadRequest, "Le paiement dépasse le solde restant"
	}
	return http.StatusInternalServerError, ""
}

func paymentUpdate(invoice schemas.Invoice, payment schemas.Payment) bson.D {
	return bson.D{
		{Key: "$set", Value: totalsDoc(invoice)},
		{Key: "$push", Value: bson.D{{Key: "payments", Value: payment}}},
	}
}

func AddPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de facture invalide", nil, 0)
		return
	}

	input := schemas.PaymentInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}
	if input.Amount <= 0 {
		utils.SendResponse(w, http.StatusBadRequest, "Le montant du paiement doit être positif", nil, 0)
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

	previousBalance := invoice.Balance
	payment, err := invoice.AddPayment(input, user.ID, time.Now())
	if err != nil {
		status, message := paymentProblem(err)
		utils.SendResponse(w, status, message, nil, 0)
		return
	}

	// matching the old balance keeps two payments from overpaying
	filter := bson.D{{Key: "_id", Value: invoice.ID}, {Key: "balance", Value: previousBalance}}
	result, err := database.Collection(database.COLLECTION_INVOICES).UpdateOne(ctx, filter, paymentUpdate(invoice, payment))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_INVOICE_IN_MONGODB, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusConflict, "La facture a été modifiée entre-temps", nil, 0)
		return
	}

	notifications.Publish(schemas.Event{
		Type:   schemas.EVENT_INVOICE_PAYMENT,
		Entity: "invoice",
		ID:     invoice.ID.Hex(),
		Payload: map[string]any{
			"number":  invoice.Number,
			"amount":  payment.Amount,
			"balance": invoice.Balance,
			"status":  invoice.Status,
		},
		Audience: []string{schemas.ROLE_ADMIN, schemas.ROLE_MANAGER, schemas.ROLE_COMMERCIAL},
		ClientID: invoice.ClientID.Hex(),
	})

	utils.SendResponse(w, http.StatusCreated, "", invoice, 0)
}
