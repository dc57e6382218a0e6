package clients

import (
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var sortableFields = []string{"company", "contact_name", "created_at", "updated_at"}

func buildFilterFromQueryParams(params url.Values) bson.D {
	filter := bson.D{}

	if owner := params.Get("account_owner"); owner != "" {
		if objectID, err := bson.ObjectIDFromHex(owner); err == nil {
			filter = append(filter, bson.E{Key: "account_owner", Value: objectID})
		}
	}

	if city := params.Get("city"); city != "" {
		filter = append(filter, bson.E{Key: "address.city", Value: city})
	}

	if search := params.Get("search"); search != "" {
		filter = append(filter, utils.SearchFilter(search, "company", "contact_name", "email"))
	}

	return filter
}

func GetAll(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	pagination := utils.ParsePagination(params)
	sort := utils.ParseSort(params, sortableFields, bson.D{{Key: "company", Value: 1}})
	filter := buildFilterFromQueryParams(params)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_CLIENTS)

	totalItems, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENTS_IN_MONGODB, err)
		return
	}

	cursor, err := collection.Find(ctx, filter, pagination.FindOptions(sort))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENTS_IN_MONGODB, err)
		return
	}
	defer cursor.Close(ctx)

	clients := []schemas.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENTS_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", pagination.Envelope(clients, totalItems), 0)
}
