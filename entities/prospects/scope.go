package prospects

import (
	"crm/middlewares"
	"crm/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// scopeFilter restricts commercials to the prospects assigned to them.
func scopeFilter(user middlewares.AuthUser, filter bson.D) bson.D {
	if user.Role == schemas.ROLE_COMMERCIAL {
		return append(filter, bson.E{Key: "assigned_to", Value: user.ID})
	}
	return filter
}

func byID(user middlewares.AuthUser, id bson.ObjectID) bson.D {
	return scopeFilter(user, bson.D{{Key: "_id", Value: id}})
}
