package auth

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

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// validateRegistration normalises the request and reports the first
// problem as a user facing message.
func validateRegistration(req *registerRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		return "Le nom est obligatoire"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Adresse e-mail invalide"
	}
	if len(req.Password) < utils.MIN_PASSWORD_LENGTH {
		return "Le mot de passe doit contenir au moins 8 caractères"
	}
	return ""
}

func Register(w http.ResponseWriter, r *http.Request) {
	req := registerRequest{}
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	if problem := validateRegistration(&req); problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_HASH_PASSWORD, err)
		return
	}

	now := time.Now()
	user := schemas.User{
		ID:           bson.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         schemas.ROLE_CLIENT,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

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

	utils.SendResponse(w, http.StatusCreated, "Compte créé", user, 0)
}
