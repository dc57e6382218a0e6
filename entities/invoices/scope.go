package invoices

import (
	"context"
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const DEFAULT_PAYMENT_TERM_DAYS = 30

// scopeFilter limits client accounts to their company's invoices.
func scopeFilter(user middlewares.AuthUser, filter bson.D) bson.D {
	if user.Role == schemas.ROLE_CLIENT {
		return append(filter, bson.E{Key: "client_id", Value: user.ClientID})
	}
	return filter
}

func byID(user middlewares.AuthUser, id bson.ObjectID) bson.D {
	return scopeFilter(user, bson.D{{Key: "_id", Value: id}})
}

func findInvoice(ctx context.Context, user middlewares.AuthUser, id bson.ObjectID) (invoice schemas.Invoice, found bool, err error) {
	err = database.Collection(database.COLLECTION_INVOICES).FindOne(ctx, byID(user, id)).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return invoice, false, nil
	}
	if err != nil {
		return invoice, false, err
	}
	return invoice, true, nil
}

func findClient(ctx context.Context, id bson.ObjectID) (schemas.Client, error) {
	client := schemas.Client{}
	err := database.Collection(database.COLLECTION_CLIENTS).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&client)
	return client, err
}

// totalsDoc is the $set document for every derived invoice field.
func totalsDoc(invoice schemas.Invoice) bson.D {
	return bson.D{
		{Key: "items", Value: invoice.Items},
		{Key: "subtotal", Value: invoice.Subtotal},
		{Key: "tax_amount", Value: invoice.TaxAmount},
		{Key: "total", Value: invoice.Total},
		{Key: "amount_paid", Value: invoice.AmountPaid},
		{Key: "balance", Value: invoice.Balance},
		{Key: "status", Value: invoice.Status},
		{Key: "updated_at", Value: invoice.UpdatedAt},
	}
}
