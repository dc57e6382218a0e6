package tickets

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var sortableFields = []string{"subject", "status", "priority", "created_at", "updated_at", "resolved_at"}

func buildFilterFromQueryParams(params url.Values) bson.D {
	filter := bson.D{}

	if status := params.Get("status"); schemas.IsValidTicketStatus(status) {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}

	if priority := params.Get("priority"); schemas.IsValidTicketPriority(priority) {
		filter = append(filter, bson.E{Key: "priority", Value: priority})
	}

	for _, field := range []string{"client_id", "assigned_to"} {
		if hex := params.Get(field); hex != "" {
			if objectID, err := bson.ObjectIDFromHex(hex); err == nil {
				filter = append(filter, bson.E{Key: field, Value: objectID})
			}
		}
	}

	if search := params.Get("search"); search != "" {
		filter = append(filter, utils.SearchFilter(search, "subject", "description"))
	}

	return append(filter, utils.ParsePeriod(params).Filter("created_at")...)
}

func GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.CurrentUser(r)

	params := r.URL.Query()
	pagination := utils.ParsePagination(params)
	sort := utils.ParseSort(params, sortableFields, bson.D{{Key: "updated_at", Value: -1}})
	filter := scopeFilter(user, buildFilterFromQueryParams(params))

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_TICKETS)

	totalItems, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_TICKETS_IN_MONGODB, err)
		return
	}

	// the thread is only returned by GetOne
	findOptions := pagination.FindOptions(sort).SetProjection(bson.D{{Key: "responses", Value: 0}})

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_TICKETS_IN_MONGODB, err)
		return
	}
	defer cursor.Close(ctx)

	tickets := []schemas.Ticket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_TICKETS_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", pagination.Envelope(tickets, totalItems), 0)
}
