package auth

import (
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

var errInactive = errors.New("inactive user")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      schemas.User `json:"user"`
}

// issueFor signs a token for user. Inactive accounts are refused.
func issueFor(user schemas.User, now time.Time) (loginResponse, error) {
	if !user.Active {
		return loginResponse{}, errInactive
	}

	clientID := ""
	if !user.ClientID.IsZero() {
		clientID = user.ClientID.Hex()
	}

	token, claims, err := utils.IssueToken(user.ID.Hex(), user.Role, user.Email, clientID, now)
	if err != nil {
		return loginResponse{}, err
	}

	return loginResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func Login(w http.ResponseWriter, r *http.Request) {
	req := loginRequest{}
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		utils.SendResponse(w, http.StatusBadRequest, "E-mail et mot de passe obligatoires", nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	collection := database.Collection(database.COLLECTION_USERS)

	user := schemas.User{}
	err := collection.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusUnauthorized, "Identifiants invalides", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_USER_BY_ID_IN_MONGODB, err)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.SendResponse(w, http.StatusUnauthorized, "Identifiants invalides", nil, 0)
		return
	}

	now := time.Now()
	response, err := issueFor(user, now)
	if errors.Is(err, errInactive) {
		utils.SendResponse(w, http.StatusForbidden, "Compte désactivé", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_ISSUE_TOKEN, err)
		return
	}

	_, err = collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: user.ID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "last_login_at", Value: now}}}},
	)
	if err != nil {
		zap.L().Warn("cannot record last login", zap.String("user", user.ID.Hex()), zap.Error(err))
	}

	utils.SendResponse(w, http.StatusOK, "", response, 0)
}
