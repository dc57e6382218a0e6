package opportunities

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var sortableFields = []string{"title", "amount", "probability", "stage", "expected_close_date", "created_at", "updated_at"}

func buildFilterFromQueryParams(params url.Values) bson.D {
	filter := bson.D{}

	if stage := params.Get("stage"); schemas.IsValidStage(stage) {
		filter = append(filter, bson.E{Key: "stage", Value: stage})
	}

	for _, field := range []string{"owner", "client_id", "prospect_id"} {
		if hex := params.Get(field); hex != "" {
			if objectID, err := bson.ObjectIDFromHex(hex); err == nil {
				filter = append(filter, bson.E{Key: field, Value: objectID})
			}
		}
	}

	amount := bson.D{}
	if minAmount, err := strconv.ParseFloat(params.Get("min_amount"), 64); err == nil {
		amount = append(amount, bson.E{Key: "$gte", Value: minAmount})
	}
	if maxAmount, err := strconv.ParseFloat(params.Get("max_amount"), 64); err == nil {
		amount = append(amount, bson.E{Key: "$lte", Value: maxAmount})
	}
	if len(amount) > 0 {
		filter = append(filter, bson.E{Key: "amount", Value: amount})
	}

	if search := params.Get("search"); search != "" {
		filter = append(filter, utils.SearchFilter(search, "title", "notes"))
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

	collection := database.Collection(database.COLLECTION_OPPORTUNITIES)

	totalItems, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_OPPORTUNITIES_IN_MONGODB, err)
		return
	}

	cursor, err := collection.Find(ctx, filter, pagination.FindOptions(sort))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_OPPORTUNITIES_IN_MONGODB, err)
		return
	}
	defer cursor.Close(ctx)

	opportunities := []schemas.Opportunity{}
	if err := cursor.All(ctx, &opportunities); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_OPPORTUNITIES_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", pagination.Envelope(opportunities, totalItems), 0)
}
