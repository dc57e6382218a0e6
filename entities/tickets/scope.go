package tickets

import (
	"crm/middlewares"
	"crm/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// scopeFilter limits client accounts to their company's tickets.
func scopeFilter(user middlewares.AuthUser, filter bson.D) bson.D {
	if user.Role == schemas.ROLE_CLIENT {
		return append(filter, bson.E{Key: "client_id", Value: user.ClientID})
	}
	return filter
}

func byID(user middlewares.AuthUser, id bson.ObjectID) bson.D {
	return scopeFilter(user, bson.D{{Key: "_id", Value: id}})
}

func ticketEvent(eventType string, ticket schemas.Ticket, payload any) schemas.Event {
	return schemas.Event{
		Type:     eventType,
		Entity:   "ticket",
		ID:       ticket.ID.Hex(),
		Payload:  payload,
		Audience: []string{schemas.ROLE_ADMIN, schemas.ROLE_MANAGER, schemas.ROLE_SUPPORT},
		ClientID: ticket.ClientID.Hex(),
	}
}
