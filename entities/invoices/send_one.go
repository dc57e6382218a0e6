package invoices

import (
	"bytes"
	"context"
	"crm/database"
	"crm/mailer"
	"crm/middlewares"
	"crm/render"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const sendAttempts = 3

var errSendRaced = errors.New("invoice kept changing while marked as sent")

// sentUpdate records the sent state only. Amounts stay as stored so a
// payment recorded meanwhile keeps its totals.
func sentUpdate(invoice schemas.Invoice) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: invoice.Status},
		{Key: "sent_at", Value: invoice.SentAt},
		{Key: "updated_at", Value: invoice.UpdatedAt},
	}}}
}

// recordSent marks invoice as sent, guarded on updated_at. When another
// write got in first, the invoice is read again and marked once more.
func recordSent(ctx context.Context, user middlewares.AuthUser, invoice schemas.Invoice, now time.Time) (schemas.Invoice, error) {
	collection := database.Collection(database.COLLECTION_INVOICES)

	for attempt := 0; attempt < sendAttempts; attempt++ {
		previousUpdate := invoice.UpdatedAt
		if err := invoice.MarkSent(now); err != nil {
			return invoice, err
		}

		filter := bson.D{{Key: "_id", Value: invoice.ID}, {Key: "updated_at", Value: previousUpdate}}
		result, err := collection.UpdateOne(ctx, filter, sentUpdate(invoice))
		if err != nil {
			return invoice, err
		}
		if result.MatchedCount > 0 {
			return invoice, nil
		}

		fresh, found, err := findInvoice(ctx, user, invoice.ID)
		if err != nil {
			return invoice, err
		}
		if !found {
			return invoice, mongo.ErrNoDocuments
		}
		invoice = fresh
	}

	return invoice, errSendRaced
}

// SendOne emails the invoice PDF to the client and moves a draft to sent.
func SendOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de facture invalide", nil, 0)
		return
	}

	if !mailer.Enabled() {
		utils.SendResponse(w, http.StatusServiceUnavailable, "L'envoi d'e-mails n'est pas configuré", nil, 0)
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

	now := time.Now()
	sent := invoice
	if err := sent.MarkSent(now); err != nil {
		utils.SendResponse(w, http.StatusConflict, "Une facture annulée ne peut pas être envoyée", nil, 0)
		return
	}

	client, err := findClient(ctx, invoice.ClientID)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MONGODB, err)
		return
	}
	if client.Email == "" {
		utils.SendResponse(w, http.StatusBadRequest, "Le client n'a pas d'adresse e-mail", nil, 0)
		return
	}

	document := &bytes.Buffer{}
	if err := render.InvoicePDF(document, sent, client); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_RENDER_INVOICE_PDF, err)
		return
	}

	err = mailer.Send(ctx, mailer.InvoiceMessage(sent, client, document.Bytes()))
	if errors.Is(err, mailer.ErrDisabled) {
		utils.SendResponse(w, http.StatusServiceUnavailable, "L'envoi d'e-mails n'est pas configuré", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusBadGateway, utils.CANNOT_SEND_INVOICE_EMAIL, err)
		return
	}

	invoice, err = recordSent(ctx, user, invoice, now)
	if errors.Is(err, schemas.ErrInvoiceLocked) {
		utils.SendResponse(w, http.StatusConflict, "La facture a été annulée pendant l'envoi", nil, 0)
		return
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusNotFound, "Facture introuvable", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_INVOICE_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Facture envoyée", invoice, 0)
}
