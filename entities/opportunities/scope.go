package opportunities

import (
	"crm/middlewares"
	"crm/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// scopeFilter limits commercials to the opportunities they own.
func scopeFilter(user middlewares.AuthUser, filter bson.D) bson.D {
	if user.Role == schemas.ROLE_COMMERCIAL {
		return append(filter, bson.E{Key: "owner", Value: user.ID})
	}
	return filter
}

func byID(user middlewares.AuthUser, id bson.ObjectID) bson.D {
	return scopeFilter(user, bson.D{{Key: "_id", Value: id}})
}
