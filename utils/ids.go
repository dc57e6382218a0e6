package utils

import (
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PathObjectID parses the {name} path value as an ObjectID.
func PathObjectID(r *http.Request, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(r.PathValue(name))
	if err != nil {
		return bson.NilObjectID, false
	}
	return id, true
}

// OptionalObjectID parses hex, returning the nil id for an empty string.
func OptionalObjectID(hex string) (bson.ObjectID, bool) {
	if hex == "" {
		return bson.NilObjectID, true
	}
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, false
	}
	return id, true
}
