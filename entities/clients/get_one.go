package clients

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// canRead reports whether user may read the client record id. Client
// accounts only reach their own company.
func canRead(user middlewares.AuthUser, id bson.ObjectID) bool {
	if user.Role == schemas.ROLE_CLIENT {
		return !user.ClientID.IsZero() && user.ClientID == id
	}
	return user.IsStaff()
}

func GetOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de client invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)
	if !canRead(user, id) {
		utils.SendResponse(w, http.StatusForbidden, "Accès refusé", nil, 0)
		return
	}

	findClient(w, r, id)
}

// GetMine serves the caller's own client record.
func GetMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.CurrentUser(r)
	if user.ClientID.IsZero() {
		utils.SendResponse(w, http.StatusNotFound, "Aucun client rattaché à ce compte", nil, 0)
		return
	}

	findClient(w, r, user.ClientID)
}

func findClient(w http.ResponseWriter, r *http.Request, id bson.ObjectID) {
	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	client := schemas.Client{}
	err := database.Collection(database.COLLECTION_CLIENTS).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusNotFound, "Client introuvable", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_CLIENT_BY_ID_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", client, 0)
}
