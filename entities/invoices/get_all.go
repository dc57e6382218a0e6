package invoices

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var sortableFields = []string{"number", "issue_date", "due_date", "total", "balance", "status", "created_at"}

// statusFilter matches the status an invoice reads with at now, not only
// the stored one: sent and partially paid invoices turn overdue once their
// due date passes without being written again.
func statusFilter(status string, now time.Time) bson.D {
	notDue := bson.E{Key: "due_date", Value: bson.D{{Key: "$not", Value: bson.D{{Key: "$lt", Value: now}}}}}

	switch status {
	case schemas.INVOICE_STATUS_OVERDUE:
		return bson.D{
			{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{
				schemas.INVOICE_STATUS_SENT,
				schemas.INVOICE_STATUS_PARTIAL,
				schemas.INVOICE_STATUS_OVERDUE,
			}}}},
			{Key: "due_date", Value: bson.D{{Key: "$lt", Value: now}}},
			{Key: "balance", Value: bson.D{{Key: "$gt", Value: 0}}},
		}
	case schemas.INVOICE_STATUS_SENT, schemas.INVOICE_STATUS_PARTIAL:
		return bson.D{{Key: "status", Value: status}, notDue}
	}

	return bson.D{{Key: "status", Value: status}}
}

func buildFilterFromQueryParams(params url.Values, now time.Time) bson.D {
	filter := bson.D{}

	if status := params.Get("status"); schemas.IsValidInvoiceStatus(status) {
		filter = append(filter, statusFilter(status, now)...)
	}

	for _, field := range []string{"client_id", "opportunity_id"} {
		if hex := params.Get(field); hex != "" {
			if objectID, err := bson.ObjectIDFromHex(hex); err == nil {
				filter = append(filter, bson.E{Key: field, Value: objectID})
			}
		}
	}

	if params.Get("unpaid") == "true" {
		filter = append(filter, bson.E{Key: "balance", Value: bson.D{{Key: "$gt", Value: 0}}})
	}

	if number := params.Get("number"); number != "" {
		filter = append(filter, utils.SearchFilter(number, "number"))
	}

	return append(filter, utils.ParsePeriod(params).Filter("issue_date")...)
}

func GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.CurrentUser(r)

	params := r.URL.Query()
	pagination := utils.ParsePagination(params)
	sort := utils.ParseSort(params, sortableFields, bson.D{{Key: "issue_date", Value: -1}})
	now := time.Now()
	filter := scopeFilter(user, buildFilterFromQueryParams(params, now))

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_INVOICES)

	totalItems, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_INVOICES_IN_MONGODB, err)
		return
	}

	cursor, err := collection.Find(ctx, filter, pagination.FindOptions(sort))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_INVOICES_IN_MONGODB, err)
		return
	}
	defer cursor.Close(ctx)

	invoices := []schemas.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_INVOICES_IN_MONGODB, err)
		return
	}

	for i := range invoices {
		invoices[i].RefreshStatus(now)
	}

	utils.SendResponse(w, http.StatusOK, "", pagination.Envelope(invoices, totalItems), 0)
}
