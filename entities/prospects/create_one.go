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

// newProspectFromInput validates a creation request. A commercial's own
// prospects are assigned to them.
func newProspectFromInput(input schemas.ProspectInput, user middlewares.AuthUser, now time.Time) (schemas.Prospect, string) {
	prospect := schemas.Prospect{
		ID:        bson.NewObjectID(),
		Status:    schemas.PROSPECT_STATUS_NEW,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Company != nil {
		prospect.Company = strings.TrimSpace(*input.Company)
	}
	if input.ContactName != nil {
		prospect.ContactName = strings.TrimSpace(*input.ContactName)
	}
	if prospect.Company == "" && prospect.ContactName == "" {
		return prospect, "La société ou le nom du contact est obligatoire"
	}

	if input.Email != nil {
		prospect.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		prospect.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Source != nil {
		prospect.Source = strings.TrimSpace(*input.Source)
	}
	if input.Notes != nil {
		prospect.Notes = *input.Notes
	}

	if input.Status != nil {
		if !schemas.IsValidProspectStatus(*input.Status) || *input.Status == schemas.PROSPECT_STATUS_CONVERTED {
			return prospect, "Statut de prospect invalide"
		}
		prospect.Status = *input.Status
	}

	if input.AssignedTo != nil {
		assignedTo, ok := utils.OptionalObjectID(*input.AssignedTo)
		if !ok {
			return prospect, "Identifiant de commercial invalide"
		}
		prospect.AssignedTo = assignedTo
	}
	if user.Role == schemas.ROLE_COMMERCIAL {
		prospect.AssignedTo = user.ID
	}

	return prospect, ""
}

func CreateOne(w http.ResponseWriter, r *http.Request) {
	input := schemas.ProspectInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	prospect, problem := newProspectFromInput(input, user, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if _, err := database.Collection(database.COLLECTION_PROSPECTS).InsertOne(ctx, prospect); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_INSERT_PROSPECT_TO_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", prospect, 0)
}
