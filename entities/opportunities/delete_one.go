package opportunities

import (
	"crm/database"
	"crm/middlewares"
	"crm/utils"
	"net/http"
)

func DeleteOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant d'opportunité invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	result, err := database.Collection(database.COLLECTION_OPPORTUNITIES).DeleteOne(ctx, byID(user, id))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_DELETE_OPPORTUNITY_FROM_MONGODB, err)
		return
	}

	if result.DeletedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Opportunité introuvable", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
