package notifications

import (
	"crm/middlewares"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func authUser(role string) middlewares.AuthUser {
	return middlewares.AuthUser{ID: bson.NewObjectID(), Role: role}
}
