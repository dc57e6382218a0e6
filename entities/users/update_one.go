package users

import (
	"crm/database"
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// buildUpdate turns the provided fields into a $set document. Passwords
// are handled separately since they need hashing.
func buildUpdate(input schemas.UserInput, now time.Time) (bson.D, string) {
	updateDoc := bson.D{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, "Le nom est obligatoire"
		}
		updateDoc = append(updateDoc, bson.E{Key: "name", Value: name})
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, "Adresse e-mail invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "email", Value: email})
	}
	if input.Role != nil {
		if !schemas.IsValidRole(*input.Role) {
			return nil, "Rôle invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "role", Value: *input.Role})
	}
	if input.Phone != nil {
		updateDoc = append(updateDoc, bson.E{Key: "phone", Value: strings.TrimSpace(*input.Phone)})
	}
	if input.Active != nil {
		updateDoc = append(updateDoc, bson.E{Key: "active", Value: *input.Active})
	}
	if input.ClientID != nil {
		clientID, ok := utils.OptionalObjectID(*input.ClientID)
		if !ok {
			return nil, "Identifiant de client invalide"
		}
		updateDoc = append(updateDoc, bson.E{Key: "client_id", Value: clientID})
	}

	if len(updateDoc) == 0 && input.Password == nil {
		return nil, "Aucun champ à mettre à jour"
	}

	updateDoc = append(updateDoc, bson.E{Key: "updated_at", Value: now})
	return updateDoc, ""
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant d'utilisateur invalide", nil, 0)
		return
	}

	input := schemas.UserInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	current, _ := middlewares.CurrentUser(r)
	if current.ID == id && ((input.Active != nil && !*input.Active) || (input.Role != nil && *input.Role != current.Role)) {
		utils.SendResponse(w, http.StatusBadRequest, "Vous ne pouvez pas modifier votre propre rôle ni désactiver votre compte", nil, 0)
		return
	}

	updateDoc, problem := buildUpdate(input, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	if input.Password != nil {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, "Le mot de passe doit contenir au moins 8 caractères", nil, 0)
			return
		}
		updateDoc = append(updateDoc, bson.E{Key: "password_hash", Value: hash})
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	result, err := database.Collection(database.COLLECTION_USERS).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: updateDoc}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.SendResponse(w, http.StatusConflict, "Un compte existe déjà avec cette adresse e-mail", nil, 0)
			return
		}
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_USER_IN_MONGODB, err)
		return
	}

	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, "Utilisateur introuvable", nil, 0)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", nil, 0)
}
