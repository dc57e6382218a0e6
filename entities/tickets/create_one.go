package tickets

import (
	"crm/database"
	"crm/middlewares"
	"crm/notifications"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// newTicketFromInput validates a creation request. Client accounts open
// tickets for their own company and cannot assign them.
func newTicketFromInput(input schemas.TicketInput, user middlewares.AuthUser, now time.Time) (schemas.Ticket, string) {
	ticket := schemas.Ticket{
		ID:        bson.NewObjectID(),
		CreatedBy: user.ID,
		Status:    schemas.TICKET_STATUS_OPEN,
		Priority:  schemas.TICKET_PRIORITY_MEDIUM,
		Responses: []schemas.TicketResponse{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Subject != nil {
		ticket.Subject = strings.TrimSpace(*input.Subject)
	}
	if ticket.Subject == "" {
		return ticket, "Le sujet est obligatoire"
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}

	if input.Priority != nil {
		if !schemas.IsValidTicketPriority(*input.Priority) {
			return ticket, "Priorité invalide"
		}
		ticket.Priority = *input.Priority
	}

	if user.Role == schemas.ROLE_CLIENT {
		if user.ClientID.IsZero() {
			return ticket, "Aucun client rattaché à ce compte"
		}
		ticket.ClientID = user.ClientID
		return ticket, ""
	}

	if input.ClientID == nil {
		return ticket, "Le client est obligatoire"
	}
	clientID, ok := utils.OptionalObjectID(*input.ClientID)
	if !ok || clientID.IsZero() {
		return ticket, "Identifiant de client invalide"
	}
	ticket.ClientID = clientID

	if input.AssignedTo != nil {
		assignedTo, ok := utils.OptionalObjectID(*input.AssignedTo)
		if !ok {
			return ticket, "Identifiant d'agent invalide"
		}
		ticket.AssignedTo = assignedTo
	}

	return ticket, ""
}

func CreateOne(w http.ResponseWriter, r *http.Request) {
	input := schemas.TicketInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "Données de requête invalides", nil, 0)
		return
	}

	user, _ := middlewares.CurrentUser(r)

	ticket, problem := newTicketFromInput(input, user, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if _, err := database.Collection(database.COLLECTION_TICKETS).InsertOne(ctx, ticket); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_INSERT_TICKET_TO_MONGODB, err)
		return
	}

	notifications.Publish(ticketEvent(schemas.EVENT_TICKET_CREATED, ticket, map[string]string{
		"subject":  ticket.Subject,
		"priority": ticket.Priority,
	}))

	utils.SendResponse(w, http.StatusCreated, "", ticket, 0)
}
