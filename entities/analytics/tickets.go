package analytics

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const millisecondsPerHour = 3600 * 1000

type ticketRows struct {
	byStatus   []groupCount
	byPriority []groupCount
	resolution []averageRow
}

// ticketFigures runs the three ticket pipelines one after the other
// inside a single errgroup goroutine.
func ticketFigures(ctx context.Context, period utils.Period) (ticketRows, error) {
	rows := ticketRows{}
	created := period.Filter("created_at")

	var err error
	rows.byStatus, err = aggregate[groupCount](ctx, database.COLLECTION_TICKETS, matchStage(created, countBy("status")))
	if err != nil {
		return rows, err
	}

	rows.byPriority, err = aggregate[groupCount](ctx, database.COLLECTION_TICKETS, matchStage(created, countBy("priority")))
	if err != nil {
		return rows, err
	}

	resolved := append(bson.D{{Key: "resolved_at", Value: bson.D{{Key: "$type", Value: "date"}}}}, created...)
	rows.resolution, err = aggregate[averageRow](ctx, database.COLLECTION_TICKETS, matchStage(resolved, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "average", Value: bson.D{{Key: "$avg", Value: bson.D{{Key: "$divide", Value: bson.A{
			bson.D{{Key: "$subtract", Value: bson.A{"$resolved_at", "$created_at"}}},
			millisecondsPerHour,
		}}}}}},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}}))

	return rows, err
}

func foldTickets(dashboard *schemas.Dashboard, rows ticketRows) {
	dashboard.TicketsByStatus = make(map[string]int64, len(schemas.TicketStatuses))
	for _, status := range schemas.TicketStatuses {
		dashboard.TicketsByStatus[status] = 0
	}
	for _, row := range rows.byStatus {
		dashboard.TicketsByStatus[row.ID] += row.Count
	}

	dashboard.TicketsByPriority = make(map[string]int64, len(schemas.TicketPriorities))
	for _, priority := range schemas.TicketPriorities {
		dashboard.TicketsByPriority[priority] = 0
	}
	for _, row := range rows.byPriority {
		dashboard.TicketsByPriority[row.ID] += row.Count
	}

	if len(rows.resolution) > 0 && rows.resolution[0].Count > 0 {
		dashboard.AverageResolutionHours = schemas.RoundCents(rows.resolution[0].Average)
	}
}
