package tickets

import (
	"crm/database"
	"crm/utils"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func DeleteOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de ticket invalide", nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	result, err := database.Collection(database.COLLECTION_TICKETS).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_DELETE_TICKET_FROM_MONGODB, err)
		return
	}

	if result.DeletedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Ticket introuvable", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
