package opportunities

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

// buildUpdate covers every field but the stage, which moves through
// UpdateStage.
func buildUpdate(input schemas.OpportunityInput, user middlewares.AuthUser, now time.Time) (bson.D, string) {
	updateDoc := bson.D{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, "Le titre est obligatoire"
		}
		updateDoc = append(updateDoc, bson.E{Key: "title", Value: title})
	}
	if input.ClientID != nil {
		clientID, ok := utils.OptionalObjectID(*input.ClientID)
		if !ok {
			return nil, "Identifiant de client invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "client_id", Value: clientID})
	}
	if input.ProspectID != nil {
		prospectID, ok := utils.OptionalObjectID(*input.ProspectID)
		if !ok {
			return nil, "Identifiant de prospect invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "prospect_id", Value: prospectID})
	}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return nil, "Le montant ne peut pas être négatif"
		}
		updateDoc = append(updateDoc, bson.E{Key: "amount", Value: schemas.RoundCents(*input.Amount)})
	}
	if input.Probability != nil {
		if !validProbability(*input.Probability) {
			return nil, "La probabilité doit être comprise entre 0 et 100"
		}
		updateDoc = append(updateDoc, bson.E{Key: "probability", Value: *input.Probability})
	}
	if input.ExpectedCloseDate != nil {
		updateDoc = append(updateDoc, bson.E{Key: "expected_close_date", Value: *input.ExpectedCloseDate})
	}
	if input.Notes != nil {
		updateDoc = append(updateDoc, bson.E{Key: "notes", Value: *input.Notes})
	}
	if input.Owner != nil {
		if user.Role == schemas.ROLE_COMMERCIAL {
			return nil, "Seul un responsable peut réattribuer une opportunité"
		}
		owner, ok := utils.OptionalObjectID(*input.Owner)
		if !ok || owner.IsZero() {
			return nil, "Identifiant de propriétaire invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "owner", Value: owner})
	}

	if len(updateDoc) == 0 {
		return nil, "Aucun champ à mettre à jour"
	}

	return append(updateDoc, bson.E{Key: "updated_at", Value: now}), ""
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant d'opportunité invalide", nil, 0)
		return
	}

	input := schemas.OpportunityInput{}
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

	result, err := database.Collection(database.COLLECTION_OPPORTUNITIES).UpdateOne(ctx, byID(user, id), bson.D{{Key: "$set", Value: updateDoc}})
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_OPPORTUNITY_IN_MONGODB, err)
		return
	}

	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Opportunité introuvable", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
