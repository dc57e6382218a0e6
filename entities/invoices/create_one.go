package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const numberAttempts = 3

// lineItemProblem maps Validate errors to their message.
func lineItemProblem(err error) string {
	switch {
	case errors.Is(err, schemas.ErrNoLineItems):
		return "La facture doit contenir au moins une ligne"
	case errors.Is(err, schemas.ErrInvalidLineItem):
		return "Chaque ligne doit avoir une description, une quantité positive et un prix unitaire positif ou nul"
	case errors.Is(err, schemas.ErrInvalidTaxRate):
		return "Le taux de TVA doit être compris entre 0 et 100"
	}
	return "Facture invalide"
}

func newInvoiceFromInput(input schemas.InvoiceInput, user middlewares.AuthUser, now time.Time) (schemas.Invoice, string) {
	invoice := schemas.Invoice{
		ID:        bson.NewObjectID(),
		Number:    schemas.NewInvoiceNumber(now),
		TaxRate:   schemas.DEFAULT_TAX_RATE,
		Status:    schemas.INVOICE_STATUS_DRAFT,
		IssueDate: now,
		Payments:  []schemas.Payment{},
		CreatedBy: user.ID,
		CreatedAt: now,
	}

	if input.ClientID == nil {
		return invoice, "Le client est obligatoire"
	}
	clientID, ok := utils.OptionalObjectID(*input.ClientID)
	if !ok || clientID.IsZero() {
		return invoice, "Identifiant de client invalide"
	}
	invoice.ClientID = clientID

	if input.OpportunityID != nil {
		opportunityID, ok := utils.OptionalObjectID(*input.OpportunityID)
		if !ok {
			return invoice, "Identifiant d'opportunité invalide"
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

	dueDate := invoice.IssueDate.AddDate(0, 0, DEFAULT_PAYMENT_TERM_DAYS)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}
	if dueDate.Before(invoice.IssueDate) {
		return invoice, "L'échéance ne peut pas précéder la date d'émission"
	}
	invoice.DueDate = &dueDate

	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if err := invoice.Validate(); err != nil {
		return invoice, lineItemProblem(err)
	}

	invoice.ComputeTotals(now)

	return invoice, ""
}

func CreateOne(w http.ResponseWriter, r *http.Request) {
	input := schemas.InvoiceInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)
	now := time.Now()

	invoice, problem := newInvoiceFromInput(input, user, now)
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if _, err := findClient(ctx, invoice.ClientID); errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusBadRequest, "Client introuvable", nil, 0)
		return
	} else if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MONGODB, err)
		return
	}

	collection := database.Collection(database.COLLECTION_INVOICES)

	// the number suffix is random, so a collision only needs a new draw
	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		_, err = collection.InsertOne(ctx, invoice)
		if !mongo.IsDuplicateKeyError(err) {
			break
		}
		invoice.Number = schemas.NewInvoiceNumber(now)
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_INSERT_INVOICE_TO_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", invoice, 0)
}
