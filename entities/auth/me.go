package auth

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// accountProblem refuses tokens whose account was deleted or deactivated
// after they were issued.
func accountProblem(user schemas.User, found bool) (int, string) {
	if !found {
		return http.StatusNotFound, "Utilisateur introuvable"
	}
	if !user.Active {
		return http.StatusForbidden, "Compte désactivé"
	}
	return 0, ""
}

func Me(w http.ResponseWriter, r *http.Request) {
	current, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	user := schemas.User{}
	err := database.Collection(database.COLLECTION_USERS).FindOne(ctx, bson.D{{Key: "_id", Value: current.ID}}).Decode(&user)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_USER_BY_ID_IN_MONGODB, err)
		return
	}
	if status, problem := accountProblem(user, err == nil); status != 0 {
		utils.SendResponse(w, status, problem, nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", user, 0)
}

func Logout(w http.ResponseWriter, r *http.Request) {
	current, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if err := database.RevokeToken(ctx, current.TokenID, current.ExpiresAt); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_REVOKE_TOKEN, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Déconnexion effectuée", nil, 0)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func ChangePassword(w http.ResponseWriter, r *http.Request) {
	current, _ := middlewares.CurrentUser(r)

	req := passwordRequest{}
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}
	if len(req.NewPassword) < utils.MIN_PASSWORD_LENGTH {
		utils.SendResponse(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 8 caractères", nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_USERS)

	user := schemas.User{}
	err := collection.FindOne(ctx, bson.D{{Key: "_id", Value: current.ID}}).Decode(&user)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_USER_BY_ID_IN_MONGODB, err)
		return
	}
	if status, problem := accountProblem(user, err == nil); status != 0 {
		utils.SendResponse(w, status, problem, nil, 0)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		utils.SendResponse(w, http.StatusUnauthorized, "Mot de passe actuel incorrect", nil, 0)
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_HASH_PASSWORD, err)
		return
	}

	_, err = collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: current.ID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "password_hash", Value: hash}, {Key: "updated_at", Value: time.Now()}}}},
	)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_USER_IN_MONGODB, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Mot de passe modifié", nil, 0)
}
