package clients

import (
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func buildUpdate(input schemas.ClientInput, now time.Time) (bson.D, string) {
	updateDoc := bson.D{}

	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		if company == "" {
			return nil, "La société est obligatoire"
		}
		updateDoc = append(updateDoc, bson.E{Key: "company", Value: company})
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
	if input.Address != nil {
		updateDoc = append(updateDoc, bson.E{Key: "address", Value: *input.Address})
	}
	if input.VATNumber != nil {
		updateDoc = append(updateDoc, bson.E{Key: "vat_number", Value: strings.ToUpper(strings.ReplaceAll(*input.VATNumber, " ", ""))})
	}
	if input.AccountOwner != nil {
		owner, ok := utils.OptionalObjectID(*input.AccountOwner)
		if !ok {
			return nil, "Identifiant de commercial invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "account_owner", Value: owner})
	}

	if len(updateDoc) == 0 {
		return nil, "Aucun champ à mettre à jour"
	}

	return append(updateDoc, bson.E{Key: "updated_at", Value: now}), ""
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de client invalide", nil, 0)
		return
	}

	input := schemas.ClientInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	updateDoc, problem := buildUpdate(input, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	result, err := database.Collection(database.COLLECTION_CLIENTS).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_CLIENT_IN_MONGODB, err)
		return
	}

	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Client introuvable", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
