package clients

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

func newClientFromInput(input schemas.ClientInput, user middlewares.AuthUser, now time.Time) (schemas.Client, string) {
	client := schemas.Client{
		ID:        bson.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Company != nil {
		client.Company = strings.TrimSpace(*input.Company)
	}
	if client.Company == "" {
		return client, "La société est obligatoire"
	}

	if input.ContactName != nil {
		client.ContactName = strings.TrimSpace(*input.ContactName)
	}
	if input.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		client.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.VATNumber != nil {
		client.VATNumber = strings.ToUpper(strings.ReplaceAll(*input.VATNumber, " ", ""))
	}

	client.AccountOwner = user.ID
	if input.AccountOwner != nil {
		owner, ok := utils.OptionalObjectID(*input.AccountOwner)
		if !ok {
			return client, "Identifiant de commercial invalide"
		}
		client.AccountOwner = owner
	}

	return client, ""
}

func CreateOne(w http.ResponseWriter, r *http.Request) {
	input := schemas.ClientInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	client, problem := newClientFromInput(input, user, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if _, err := database.Collection(database.COLLECTION_CLIENTS).InsertOne(ctx, client); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_INSERT_CLIENT_TO_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", client, 0)
}
