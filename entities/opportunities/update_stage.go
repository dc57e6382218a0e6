package opportunities

import (
	"crm/database"
	"crm/middlewares"
	"crm/notifications"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type stageRequest struct {
	Stage string `json:"stage"`
	// Probability overrides the stage default on an open stage.
	Probability *int `json:"probability"`
}

// applyMove validates request against opportunity and applies the move.
func applyMove(opportunity *schemas.Opportunity, request stageRequest, by bson.ObjectID, now time.Time) (int, string) {
	if err := opportunity.MoveStage(request.Stage, by, now); err != nil {
		return stageProblem(err)
	}

	if request.Probability != nil && !schemas.IsClosedStage(request.Stage) {
		opportunity.Probability = *request.Probability
	}

	return 0, ""
}

// stageProblem maps a MoveStage error to its status and message.
func stageProblem(err error) (int, string) {
	switch {
	case errors.Is(err, schemas.ErrInvalidStage):
		return http.StatusBadRequest, "Étape inconnue"
	case errors.Is(err, schemas.ErrOpportunityClosed):
		return http.StatusConflict, "Cette opportunité est clôturée"
	case errors.Is(err, schemas.ErrInvalidStageTransition):
		return http.StatusConflict, "Changement d'étape non autorisé"
	}
	return http.StatusInternalServerError, ""
}

func stageUpdate(opportunity schemas.Opportunity) bson.D {
	change := opportunity.StageHistory[len(opportunity.StageHistory)-1]

	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "stage", Value: opportunity.Stage},
			{Key: "probability", Value: opportunity.Probability},
			{Key: "closed_at", Value: opportunity.ClosedAt},
			{Key: "updated_at", Value: opportunity.UpdatedAt},
		}},
		{Key: "$push", Value: bson.D{{Key: "stage_history", Value: change}}},
	}
}

func UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant d'opportunité invalide", nil, 0)
		return
	}

	request := stageRequest{}
	if err := utils.DecodeBody(r, &request); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}
	if !schemas.IsValidStage(request.Stage) {
		utils.SendResponse(w, http.StatusBadRequest, "Étape inconnue", nil, 0)
		return
	}
	if request.Probability != nil && !validProbability(*request.Probability) {
		utils.SendResponse(w, http.StatusBadRequest, "La probabilité doit être comprise entre 0 et 100", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_OPPORTUNITIES)

	opportunity := schemas.Opportunity{}
	err := collection.FindOne(ctx, byID(user, id)).Decode(&opportunity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusNotFound, "Opportunité introuvable", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_OPPORTUNITY_BY_ID_IN_MONGODB, err)
		return
	}

	previousStage := opportunity.Stage
	if status, message := applyMove(&opportunity, request, user.ID, time.Now()); status != 0 {
		utils.SendResponse(w, status, message, nil, 0)
		return
	}

	// the stage condition rejects a move raced by another request
	filter := bson.D{{Key: "_id", Value: opportunity.ID}, {Key: "stage", Value: previousStage}}
	result, err := collection.UpdateOne(ctx, filter, stageUpdate(opportunity))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_OPPORTUNITY_IN_MONGODB, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusConflict, "L'opportunité a été modifiée entre-temps", nil, 0)
		return
	}

	notifications.Publish(schemas.Event{
		Type:   schemas.EVENT_OPPORTUNITY_STAGE,
		Entity: "opportunity",
		ID:     opportunity.ID.Hex(),
		Payload: map[string]any{
			"from":        previousStage,
			"to":          opportunity.Stage,
			"probability": opportunity.Probability,
		},
	})

	utils.SendResponse(w, http.StatusOK, "", opportunity, 0)
}
