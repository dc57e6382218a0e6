package users

import (
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var sortableFields = []string{"name", "email", "role", "created_at", "last_login_at"}

func buildFilterFromQueryParams(params url.Values) bson.D {
	filter := bson.D{}

	if role := params.Get("role"); schemas.IsValidRole(role) {
		filter = append(filter, bson.E{Key: "role", Value: role})
	}

	switch params.Get("active") {
	case "true":
		filter = append(filter, bson.E{Key: "active", Value: true})
	case "false":
		filter = append(filter, bson.E{Key: "active", Value: false})
	}

	if search := params.Get("search"); search != "" {
		filter = append(filter, utils.SearchFilter(search, "name", "email"))
	}

	return filter
}

func GetAll(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	pagination := utils.ParsePagination(params)
	sort := utils.ParseSort(params, sortableFields, bson.D{{Key: "created_at", Value: -1}})
	filter := buildFilterFromQueryParams(params)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_USERS)

	totalItems, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_USERS_IN_MONGODB, err)
		return
	}

	cursor, err := collection.Find(ctx, filter, pagination.FindOptions(sort))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_USERS_IN_MONGODB, err)
		return
	}
	defer cursor.Close(ctx)

	users := []schemas.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_USERS_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", pagination.Envelope(users, totalItems), 0)
}
