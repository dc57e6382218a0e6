package reports

import (
	"context"
	"crm/database"
	"crm/render"
	"crm/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const MAX_REPORT_ROWS = 10000

type fetchFunc func(ctx context.Context, collection string, filter, sort bson.D, clients names) ([][]string, error)

type definition struct {
	title       string
	collection  string
	dateField   string
	sort        bson.D
	columns     []render.Column
	// clientNames loads the company names used by the Client column.
	clientNames bool
	fetch       fetchFunc
}

var definitions = map[string]definition{
	schemas.REPORT_TYPE_PROSPECTS: {
		title:      "Rapport des prospects",
		collection: database.COLLECTION_PROSPECTS,
		dateField:  "created_at",
		sort:       bson.D{{Key: "created_at", Value: -1}},
		columns:    prospectColumns,
		fetch:      rowsOf(prospectRow),
	},
	schemas.REPORT_TYPE_OPPORTUNITIES: {
		title:       "Rapport des opportunités",
		collection:  database.COLLECTION_OPPORTUNITIES,
		dateField:   "created_at",
		sort:        bson.D{{Key: "stage", Value: 1}, {Key: "amount", Value: -1}},
		columns:     opportunityColumns,
		clientNames: true,
		fetch:       rowsOf(opportunityRow),
	},
	schemas.REPORT_TYPE_CLIENTS: {
		title:      "Rapport des clients",
		collection: database.COLLECTION_CLIENTS,
		dateField:  "created_at",
		sort:       bson.D{{Key: "company", Value: 1}},
		columns:    clientColumns,
		fetch:      rowsOf(clientRow),
	},
	schemas.REPORT_TYPE_TICKETS: {
		title:       "Rapport des tickets",
		collection:  database.COLLECTION_TICKETS,
		dateField:   "created_at",
		sort:        bson.D{{Key: "created_at", Value: -1}},
		columns:     ticketColumns,
		clientNames: true,
		fetch:       rowsOf(ticketRow),
	},
	schemas.REPORT_TYPE_INVOICES: {
		title:       "Rapport des factures",
		collection:  database.COLLECTION_INVOICES,
		dateField:   "issue_date",
		sort:        bson.D{{Key: "issue_date", Value: -1}},
		columns:     invoiceColumns,
		clientNames: true,
		fetch:       rowsOf(invoiceRow),
	},
}

func rowsOf[T any](toRow func(T, names) []string) fetchFunc {
	return func(ctx context.Context, collection string, filter, sort bson.D, clients names) ([][]string, error) {
		return fetchRows(ctx, collection, filter, sort, clients, toRow)
	}
}

// fetchRows walks the matching documents into table rows.
func fetchRows[T any](ctx context.Context, collection string, filter, sort bson.D, clients names, toRow func(T, names) []string) ([][]string, error) {
	findOptions := options.Find().SetSort(sort).SetLimit(MAX_REPORT_ROWS)

	cursor, err := database.Collection(collection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := [][]string{}
	for cursor.Next(ctx) {
		var document T
		if err := cursor.Decode(&document); err != nil {
			return nil, err
		}
		rows = append(rows, toRow(document, clients))
	}

	return rows, cursor.Err()
}

func loadClientNames(ctx context.Context) (names, error) {
	projection := options.Find().SetProjection(bson.D{{Key: "company", Value: 1}})

	cursor, err := database.Collection(database.COLLECTION_CLIENTS).Find(ctx, bson.D{}, projection)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := names{}
	for cursor.Next(ctx) {
		client := schemas.Client{}
		if err := cursor.Decode(&client); err != nil {
			return nil, err
		}
		clients[client.ID] = client.Company
	}

	return clients, cursor.Err()
}
