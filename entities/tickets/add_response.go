package tickets

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
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type responseRequest struct {
	Message string `json:"message"`
}

func responseUpdate(ticket schemas.Ticket) bson.D {
	response := ticket.Responses[len(ticket.Responses)-1]

	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: ticket.Status},
			{Key: "resolved_at", Value: ticket.ResolvedAt},
			{Key: "updated_at", Value: ticket.UpdatedAt},
		}},
		{Key: "$push", Value: bson.D{{Key: "responses", Value: response}}},
	}
}

// AddResponse appends a message to the ticket thread. Staff replies are
// emailed to the client when SMTP is configured.
func AddResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de ticket invalide", nil, 0)
		return
	}

	request := responseRequest{}
	if err := utils.DecodeBody(r, &request); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	ticket, found, err := findTicket(ctx, user, id)
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_FIND_TICKET_BY_ID_IN_MONGODB, err)
		return
	}
	if !found {
		utils.SendResponse(w, http.StatusNotFound, "Ticket introuvable", nil, 0)
		return
	}

	err = ticket.AddResponse(schemas.TicketResponse{
		Author:     user.ID,
		AuthorName: user.Email,
		AuthorRole: user.Role,
		Message:    request.Message,
	}, time.Now())
	if errors.Is(err, schemas.ErrTicketClosed) {
		utils.SendResponse(w, http.StatusConflict, "Ce ticket est fermé", nil, 0)
		return
	}
	if errors.Is(err, schemas.ErrEmptyResponse) {
		utils.SendResponse(w, http.StatusBadRequest, "Le message est obligatoire", nil, 0)
		return
	}

	_, err = database.Collection(database.COLLECTION_TICKETS).UpdateOne(ctx, bson.D{{Key: "_id", Value: ticket.ID}}, responseUpdate(ticket))
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_TICKET_IN_MONGODB, err)
		return
	}

	response := ticket.Responses[len(ticket.Responses)-1]

	if user.IsStaff() && mailer.Enabled() {
		notifyClient(ctx, ticket, response)
	}

	notifications.Publish(ticketEvent(schemas.EVENT_TICKET_RESPONSE, ticket, map[string]string{
		"status":      ticket.Status,
		"author_role": response.AuthorRole,
	}))

	utils.SendResponse(w, http.StatusCreated, "", ticket, 0)
}

// notifyClient emails the ticket author, falling back to the company
// address. Failures are logged only.
func notifyClient(ctx context.Context, ticket schemas.Ticket, response schemas.TicketResponse) {
	to := ""

	author := schemas.User{}
	err := database.Collection(database.COLLECTION_USERS).FindOne(ctx, bson.D{{Key: "_id", Value: ticket.CreatedBy}}).Decode(&author)
	if err == nil && author.Role == schemas.ROLE_CLIENT {
		to = author.Email
	}

	if to == "" {
		client := schemas.Client{}
		if err := database.Collection(database.COLLECTION_CLIENTS).FindOne(ctx, bson.D{{Key: "_id", Value: ticket.ClientID}}).Decode(&client); err == nil {
			to = client.Email
		}
	}

	if to == "" {
		zap.L().Info("ticket reply not emailed, no client address", zap.String("ticket", ticket.ID.Hex()))
		return
	}

	if err := mailer.Send(ctx, mailer.TicketReplyMessage(ticket, response, to)); err != nil {
		zap.L().Warn("ticket reply email failed", zap.String("ticket", ticket.ID.Hex()), zap.Error(err))
	}
}
