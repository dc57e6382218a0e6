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

// applyUpdate changes ticket in place and returns the matching $set
// document. Status, priority and assignment are staff only.
func applyUpdate(ticket *schemas.Ticket, input schemas.TicketInput, user middlewares.AuthUser, now time.Time) (bson.D, string) {
	updateDoc := bson.D{}
	staff := user.IsStaff()

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, "Le sujet est obligatoire"
		}
		ticket.Subject = subject
		updateDoc = append(updateDoc, bson.E{Key: "subject", Value: subject})
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
		updateDoc = append(updateDoc, bson.E{Key: "description", Value: ticket.Description})
	}

	if !staff && (input.Status != nil || input.Priority != nil || input.AssignedTo != nil || input.ClientID != nil) {
		return nil, "Seul le support peut modifier le statut, la priorité ou l'assignation"
	}

	if input.Priority != nil {
		if !schemas.IsValidTicketPriority(*input.Priority) {
			return nil, "Priorité invalide"
		}
		ticket.Priority = *input.Priority
		updateDoc = append(updateDoc, bson.E{Key: "priority", Value: ticket.Priority})
	}
	if input.AssignedTo != nil {
		assignedTo, ok := utils.OptionalObjectID(*input.AssignedTo)
		if !ok {
			return nil, "Identifiant d'agent invalide"
		}
		ticket.AssignedTo = assignedTo
		updateDoc = append(updateDoc, bson.E{Key: "assigned_to", Value: assignedTo})
	}
	if input.ClientID != nil {
		clientID, ok := utils.OptionalObjectID(*input.ClientID)
		if !ok || clientID.IsZero() {
			return nil, "Identifiant de client invalide"
		}
		ticket.ClientID = clientID
		updateDoc = append(updateDoc, bson.E{Key: "client_id", Value: clientID})
	}
	if input.Status != nil {
		if err := ticket.SetStatus(*input.Status, now); err != nil {
			return nil, "Statut de ticket invalide"
		}
		updateDoc = append(updateDoc,
			bson.E{Key: "status", Value: ticket.Status},
			bson.E{Key: "resolved_at", Value: ticket.ResolvedAt},
		)
	}

	if len(updateDoc) == 0 {
		return nil, "Aucun champ à mettre à jour"
	}

	ticket.UpdatedAt = now
	return append(updateDoc, bson.E{Key: "updated_at", Value: now}), ""
}

func UpdateOne(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathObjectID(r, "id")
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Identifiant de ticket invalide", nil, 0)
		return
	}

	input := schemas.TicketInput{}
	if err := utils.DecodeBody(r, &input); err != nil {
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

	updateDoc, problem := applyUpdate(&ticket, input, user, time.Now())
	if problem != "" {
		utils.SendResponse(w, http.StatusBadRequest, problem, nil, 0)
		return
	}

	if _, err := database.Collection(database.COLLECTION_TICKETS).UpdateOne(ctx, bson.D{{Key: "_id", Value: ticket.ID}}, bson.D{{Key: "$set", Value: updateDoc}}); err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_UPDATE_TICKET_IN_MONGODB, err)
		return
	}

	notifications.Publish(ticketEvent(schemas.EVENT_TICKET_UPDATED, ticket, map[string]string{
		"status":   ticket.Status,
		"priority": ticket.Priority,
	}))

	utils.SendResponse(w, http.StatusOK, "", ticket, 0)
}
