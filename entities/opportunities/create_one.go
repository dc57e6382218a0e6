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

func validProbability(p int) bool {
	return p >= 0 && p <= 100
}

// newOpportunityFromInput validates a creation request. New deals always
// start in the discovery stage; commercials own what they create.
func newOpportunityFromInput(input schemas.OpportunityInput, user middlewares.AuthUser, now time.Time) (schemas.Opportunity, string) {
	opportunity := schemas.Opportunity{
		ID:           bson.NewObjectID(),
		Stage:        schemas.STAGE_DISCOVERY,
		Probability:  schemas.DefaultStageProbability[schemas.STAGE_DISCOVERY],
		Owner:        user.ID,
		StageHistory: []schemas.StageChange{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return opportunity, "Le titre est obligatoire"
	}
	opportunity.Title = strings.TrimSpace(*input.Title)

	if input.ClientID != nil {
		clientID, ok := utils.OptionalObjectID(*input.ClientID)
		if !ok {
			return opportunity, "Identifiant de client invalide"
		}
		opportunity.ClientID = clientID
	}
	if input.ProspectID != nil {
		prospectID, ok := utils.OptionalObjectID(*input.ProspectID)
		if !ok {
			return opportunity, "Identifiant de prospect invalide"
		}
		opportunity.ProspectID = prospectID
	}
	if opportunity.ClientID.IsZero() && opportunity.ProspectID.IsZero() {
		return opportunity, "Une opportunité doit être rattachée à un client ou un prospect"
	}

	if input.Amount != nil {
		if *input.Amount < 0 {
			return opportunity, "Le montant ne peut pas être négatif"
		}
		opportunity.Amount = schemas.RoundCents(*input.Amount)
	}
	if input.Probability != nil {
		if !validProbability(*input.Probability) {
			return opportunity, "La probabilité doit être comprise entre 0 et 100"
		}
		opportunity.Probability = *input.Probability
	}

	opportunity.ExpectedCloseDate = input.ExpectedCloseDate
	if input.Notes != nil {
		opportunity.Notes = *input.Notes
	}

	if input.Owner != nil && user.Role != schemas.ROLE_COMMERCIAL {
		owner, ok := utils.OptionalObjectID(*input.Owner)
		if !ok || owner.IsZero() {
			return opportunity, "Identifiant de propriétaire invalide"
		}
		opportunity.Owner = owner
	}

	return opportunity, ""
}

func CreateOne(w http.ResponseWriter, r *http.Request) {
	input := schemas.OpportunityInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	opportunity, problem := newOpportunityFromInput(input, user, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if _, err := database.Collection(database.COLLECTION_OPPORTUNITIES).InsertOne(ctx, opportunity); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_INSERT_OPPORTUNITY_TO_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", opportunity, 0)
}
