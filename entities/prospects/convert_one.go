package prospects

import (
	"context"
	"crm/database"
	"crm/mailer"
	"crm/middlewares"
	"crm/notifications"
	"crm/schemas"
	"crm/utils"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type conversionResult struct {
	Client         schemas.Client `json:"client"`
	User           *schemas.User  `json:"user,omitempty"`
	WelcomeEmailed bool           `json:"welcome_emailed"`
}

// portalAccount builds the client login for a converted prospect. It
// returns nil when the prospect has no usable email.
func portalAccount(prospect schemas.Prospect, client schemas.Client, passwordHash string, now time.Time) *schemas.User {
	if _, err := mail.ParseAddress(prospect.Email); err != nil {
		return nil
	}

	name := prospect.ContactName
	if name == "" {
		name = prospect.Company
	}

	return &schemas.User{
		ID:           bson.NewObjectID(),
		Name:         name,
		Email:        prospect.Email,
		PasswordHash: passwordHash,
		Role:         schemas.ROLE_CLIENT,
		Phone:        prospect.Phone,
		Active:       true,
		ClientID:     client.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func ConvertOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de prospect invalide", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	prospects := database.Collection(database.COLLECTION_PROSPECTS)

	prospect := schemas.Prospect{}
	err := prospects.FindOne(ctx, byID(user, id)).Decode(&prospect)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendResponse(w, http.StatusNotFound, "Prospect introuvable", nil, 0)
		return
	}
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_PROSPECT_BY_ID_IN_MONGODB, err)
		return
	}

	previousStatus := prospect.Status
	now := time.Now()

	client, err := prospect.Convert(now)
	if errors.Is(err, schemas.ErrProspectAlreadyConverted) {
		utils.SendResponse(w, http.StatusConflict, "Ce prospect a déjà été converti", nil, 0)
		return
	}

	// claims the prospect so two concurrent conversions cannot both succeed
	result, err := prospects.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: prospect.ID}, {Key: "status", Value: bson.D{{Key: "$ne", Value: schemas.PROSPECT_STATUS_CONVERTED}}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: prospect.Status},
			{Key: "converted_client", Value: prospect.ConvertedClient},
			{Key: "converted_at", Value: prospect.ConvertedAt},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_PROSPECT_IN_MONGODB, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusConflict, "Ce prospect a déjà été converti", nil, 0)
		return
	}

	response := conversionResult{}

	password, err := utils.GeneratePassword()
	if err == nil {
		hash, hashErr := utils.HashPassword(password)
		if hashErr == nil {
			response.User = portalAccount(prospect, client, hash, now)
		}
	}

	if response.User != nil {
		_, err := database.Collection(database.COLLECTION_USERS).InsertOne(ctx, response.User)
		if err != nil {
			zap.L().Warn("portal account not created",
				zap.String("prospect", prospect.ID.Hex()),
				zap.Bool("duplicate", mongo.IsDuplicateKeyError(err)),
				zap.Error(err),
			)
			response.User = nil
		} else {
			client.UserID = response.User.ID
		}
	}

	if _, err := database.Collection(database.COLLECTION_CLIENTS).InsertOne(ctx, client); err != nil {
		rollbackConversion(ctx, prospect.ID, previousStatus, response.User)
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_CONVERT_PROSPECT, err)
		return
	}
	response.Client = client

	if response.User != nil && mailer.Enabled() {
		if err := mailer.Send(ctx, mailer.WelcomeMessage(*response.User, password)); err != nil {
			zap.L().Warn("welcome email not sent", zap.String("user", response.User.ID.Hex()), zap.Error(err))
		} else {
			response.WelcomeEmailed = true
		}
	}

	notifications.Publish(schemas.Event{
		Type:     schemas.EVENT_PROSPECT_CONVERTED,
		Entity:   "prospect",
		ID:       prospect.ID.Hex(),
		Payload:  map[string]string{"client_id": client.ID.Hex()},
		Audience: []string{schemas.ROLE_ADMIN, schemas.ROLE_MANAGER, schemas.ROLE_COMMERCIAL},
	})

	utils.SendResponse(w, http.StatusCreated, "Prospect converti en client", response, 0)
}

func rollbackConversion(ctx context.Context, prospectID bson.ObjectID, previousStatus string, account *schemas.User) {
	_, err := database.Collection(database.COLLECTION_PROSPECTS).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: prospectID}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "status", Value: previousStatus}}},
			{Key: "$unset", Value: bson.D{{Key: "converted_client", Value: ""}, {Key: "converted_at", Value: ""}}},
		},
	)
	if err != nil {
		zap.L().Error("cannot roll back prospect conversion", zap.String("prospect", prospectID.Hex()), zap.Error(err))
	}

	if account != nil {
		if _, err := database.Collection(database.COLLECTION_USERS).DeleteOne(ctx, bson.D{{Key: "_id", Value: account.ID}}); err != nil {
			zap.L().Error("cannot remove portal account", zap.String("user", account.ID.Hex()), zap.Error(err))
		}
	}
}
