package prospects

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
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de prospect invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	prospect := schemas.Prospect{}
	err := database.Collection(database.COLLECTION_PROSPECTS).FindOne(ctx, byID(user, id)).Decode(&prospect)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusNotFound, "Prospect introuvable", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_PROSPECT_BY_ID_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", prospect, 0)
}
