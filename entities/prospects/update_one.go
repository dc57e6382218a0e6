package prospects

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func buildUpdate(input schemas.ProspectInput, user middlewares.AuthUser, now time.Time) (bson.D, string) {
	updateDoc := bson.D{}

	if input.Company != nil {
		updateDoc = append(updateDoc, bson.E{Key: "company", Value: strings.TrimSpace(*input.Company)})
	}
	if input.ContactName != nil {
		updateDoc = append(updateDoc, bson.E{Key: "contact_name", Value: strings.TrimSpace(*input.ContactName)})
	}
	if input.Email != nil {
		updateDoc = append(updateDoc, bson.E{Key: "email", Value: strings.ToLower(strings.TrimSpace(*input.Email))})
	}
	if input.Phone != nil {
		updateDoc = append(updateDoc, bson.E{Key: "phone", Value: strings.TrimSpace(*input.Phone)})
	}
	if input.Source != nil {
		updateDoc = append(updateDoc, bson.E{Key: "source", Value: strings.TrimSpace(*input.Source)})
	}
	if input.Notes != nil {
		updateDoc = append(updateDoc, bson.E{Key: "notes", Value: *input.Notes})
	}
	if input.Status != nil {
		// conversion goes through its own endpoint
		if !schemas.IsValidProspectStatus(*input.Status) || *input.Status == schemas.PROSPECT_STATUS_CONVERTED {
			return nil, "Statut de prospect invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "status", Value: *input.Status})
	}
	if input.AssignedTo != nil {
		if user.Role == schemas.ROLE_COMMERCIAL {
			return nil, "Seul un responsable peut réattribuer un prospect"
		}
		assignedTo, ok := utils.OptionalObjectID(*input.AssignedTo)
		if !ok {
			return nil, "Identifiant de commercial invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "assigned_to", Value: assignedTo})
	}

	if len(updateDoc) == 0 {
		return nil, "Aucun champ à mettre à jour"
	}

	return append(updateDoc, bson.E{Key: "updated_at", Value: now}), ""
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de prospect invalide", nil, 0)
		return
	}

	input := schemas.ProspectInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	updateDoc, problem := buildUpdate(input, user, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	filter := append(byID(user, id), bson.E{Key: "status", Value: bson.D{{Key: "$ne", Value: schemas.PROSPECT_STATUS_CONVERTED}}})

	result, err := database.Collection(database.COLLECTION_PROSPECTS).UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_PROSPECT_IN_MONGODB, err)
		return
	}

	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Prospect introuvable ou déjà converti", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
