package database

import (
	"context"
	"crm/utils"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	MONGO_TIMEOUT            = 20 * time.Second
	COLLECTION_USERS         = "users"
	COLLECTION_PROSPECTS     = "prospects"
	COLLECTION_OPPORTUNITIES = "opportunities"
	COLLECTION_CLIENTS       = "clients"
	COLLECTION_TICKETS       = "tickets"
	COLLECTION_INVOICES      = "invoices"
)

var mongoClient *mongo.Client

func GetDB() string {
	environment := os.Getenv(utils.ENV)

	if environment == utils.ENV_RELEASE {
		return "production"
	}

	if environment == utils.ENV_HOMOLOG {
		return "homolog"
	}

	if environment == utils.ENV_DEVELOPMENT {
		return "development"
	}

	panic("[MongoDB] Invalid DB name")
}

// ConnectMongo opens the process-wide client and checks it with a ping.
func ConnectMongo(ctx context.Context, uri string) error {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("[MongoDB] connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("[MongoDB] ping: %w", err)
	}

	mongoClient = client
	return nil
}

func DisconnectMongo(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}

func Collection(name string) *mongo.Collection {
	if mongoClient == nil {
		panic("[MongoDB] client not connected")
	}
	return mongoClient.Database(GetDB()).Collection(name)
}

// Timeout returns a context bounded by MONGO_TIMEOUT.
func Timeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, MONGO_TIMEOUT)
}

// EnsureIndexes creates the indexes the handlers rely on.
func EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		COLLECTION_USERS: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		COLLECTION_PROSPECTS: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			{Keys: bson.D{{Key: "legacy_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		COLLECTION_OPPORTUNITIES: {
			{Keys: bson.D{{Key: "stage", Value: 1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "client_id", Value: 1}}},
		},
		COLLECTION_CLIENTS: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		COLLECTION_TICKETS: {
			{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		},
		COLLECTION_INVOICES: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "status", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("[MongoDB] indexes on %s: %w", name, err)
		}
	}

	return nil
}
