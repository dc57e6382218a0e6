package users

import (
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// newUserFromInput validates a creation request. Role defaults to
// commercial and accounts start active.
func newUserFromInput(input schemas.UserInput, now time.Time) (schemas.User, string) {
	user := schemas.User{
		ID:        bson.NewObjectID(),
		Role:      schemas.ROLE_COMMERCIAL,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return user, "Le nom est obligatoire"
	}
	user.Name = strings.TrimSpace(*input.Name)

	if input.Email == nil {
		return user, "Adresse e-mail invalide"
	}
	user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return user, "Adresse e-mail invalide"
	}

	if input.Password == nil || len(*input.Password) < utils.MIN_PASSWORD_LENGTH {
		return user, "Le mot de passe doit contenir au moins 8 caractères"
	}

	if input.Role != nil {
		if !schemas.IsValidRole(*input.Role) {
			return user, "Rôle invalide"
		}
		user.Role = *input.Role
	}

	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if input.ClientID != nil {
		clientID, ok := utils.OptionalObjectID(*input.ClientID)
		if !ok {
			return user, "Identifiant de client invalide"
		}
		user.ClientID = clientID
	}
	if user.Role == schemas.ROLE_CLIENT && user.ClientID.IsZero() {
		return user, "Un compte client doit être rattaché à un client"
	}

	return user, ""
}

func CreateOne(w http.ResponseWriter, r *http.Request) {
	input := schemas.UserInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, problem := newUserFromInput(input, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	hash, err := utils.HashPassword(*input.Password)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_HASH_PASSWORD, err)
		return
	}
	user.PasswordHash = hash

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	_, err = database.Collection(database.COLLECTION_USERS).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.SendResponse(w, http.StatusConflict, "Un compte existe déjà avec cette adresse e-mail", nil, 0)
			return
		}
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_INSERT_USER_TO_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", user, 0)
}
