package prospects

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var sortableFields = []string{"company", "contact_name", "status", "source", "created_at", "updated_at"}

func buildFilterFromQueryParams(params url.Values) bson.D {
	filter := bson.D{}

	if status := params.Get("status"); schemas.IsValidProspectStatus(status) {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}

	if source := params.Get("source"); source != "" {
		filter = append(filter, bson.E{Key: "source", Value: source})
	}

	if assignedTo := params.Get("assigned_to"); assignedTo != "" {
		if objectID, err := bson.ObjectIDFromHex(assignedTo); err == nil {
			filter = append(filter, bson.E{Key: "assigned_to", Value: objectID})
		}
	}

	if search := params.Get("search"); search != "" {
		filter = append(filter, utils.SearchFilter(search, "company", "contact_name", "email"))
	}

	return append(filter, utils.ParsePeriod(params).Filter("created_at")...)
}

func GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.CurrentUser(r)

	params := r.URL.Query()
	pagination := utils.ParsePagination(params)
	sort := utils.ParseSort(params, sortableFields, bson.D{{Key: "created_at", Value: -1}})
	filter := scopeFilter(user, buildFilterFromQueryParams(params))

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_PROSPECTS)

	totalItems, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_PROSPECTS_IN_MONGODB, err)
		return
	}

	cursor, err := collection.Find(ctx, filter, pagination.FindOptions(sort))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_PROSPECTS_IN_MONGODB, err)
		return
	}
	defer cursor.Close(ctx)

	prospects := []schemas.Prospect{}
	if err := cursor.All(ctx, &prospects); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_PROSPECTS_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", pagination.Envelope(prospects, totalItems), 0)
}
