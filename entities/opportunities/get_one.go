package opportunities

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

func GetOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant d'opportunité invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	opportunity := schemas.Opportunity{}
	err := database.Collection(database.COLLECTION_OPPORTUNITIES).FindOne(ctx, byID(user, id)).Decode(&opportunity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusNotFound, "Opportunité introuvable", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_OPPORTUNITY_BY_ID_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", opportunity, 0)
}
