package tickets

import (
	"context"
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// findTicket loads a ticket the caller is allowed to see. found is false
// when it does not exist for them.
func findTicket(ctx context.Context, user middlewares.AuthUser, id bson.ObjectID) (ticket schemas.Ticket, found bool, err error) {
	err = database.Collection(database.COLLECTION_TICKETS).FindOne(ctx, byID(user, id)).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ticket, false, nil
	}
	if err != nil {
		return ticket, false, err
	}
	return ticket, true, nil
}

func GetOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de ticket invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	ticket, found, err := findTicket(ctx, user, id)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_TICKET_BY_ID_IN_MONGODB, err)
		return
	}
	if !found {
		utils.SendResponse(w, http.StatusNotFound, "Ticket introuvable", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", ticket, 0)
}
