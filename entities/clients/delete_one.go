package clients

import (
	"crm/database"
	"crm/utils"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DeleteOne refuses to remove a client that still has invoices.
func DeleteOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de client invalide", nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	invoices, err := database.Collection(database.COLLECTION_INVOICES).CountDocuments(ctx, bson.D{{Key: "client_id", Value: id}})
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_INVOICES_IN_MONGODB, err)
		return
	}
	if invoices > 0 {
		utils.SendResponse(w, http.StatusConflict, "Ce client possède des factures et ne peut pas être supprimé", nil, 0)
		return
	}

	result, err := database.Collection(database.COLLECTION_CLIENTS).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_DELETE_CLIENT_FROM_MONGODB, err)
		return
	}

	if result.DeletedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Client introuvable", nil, 0)
		return
	}

	// the portal account cannot outlive its company
	if _, err := database.Collection(database.COLLECTION_USERS).UpdateMany(ctx,
		bson.D{{Key: "client_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "active", Value: false}}}},
	); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_USER_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
