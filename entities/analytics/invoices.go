package analytics

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func notCancelled() bson.E {
	return bson.E{Key: "status", Value: bson.D{{Key: "$ne", Value: schemas.INVOICE_STATUS_CANCELLED}}}
}

func invoicedByMonth(ctx context.Context, period utils.Period) ([]monthRow, error) {
	filter := append(bson.D{notCancelled()}, period.Filter("issue_date")...)
	pipeline := matchStage(filter, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: monthOf("issue_date")},
		{Key: "invoiced", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		{Key: "outstanding", Value: bson.D{{Key: "$sum", Value: "$balance"}}},
	}}})
	return aggregate[monthRow](ctx, database.COLLECTION_INVOICES, pipeline)
}

// collectedByMonth buckets payments by the month they were received,
// whatever the invoice date.
func collectedByMonth(ctx context.Context, period utils.Period) ([]monthRow, error) {
	pipeline := matchStage(bson.D{notCancelled()},
		bson.D{{Key: "$unwind", Value: "$payments"}},
	)
	if paid := period.Filter("payments.paid_at"); len(paid) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: paid}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: monthOf("payments.paid_at")},
		{Key: "collected", Value: bson.D{{Key: "$sum", Value: "$payments.amount"}}},
	}}})
	return aggregate[monthRow](ctx, database.COLLECTION_INVOICES, pipeline)
}

func foldRevenue(dashboard *schemas.Dashboard, invoiced, collected []monthRow) {
	dashboard.RevenueByMonth = map[string]schemas.MonthlyRevenue{}

	for _, row := range invoiced {
		month := dashboard.RevenueByMonth[row.ID]
		month.Invoiced = schemas.RoundCents(month.Invoiced + row.Invoiced)
		dashboard.RevenueByMonth[row.ID] = month

		dashboard.InvoicedTotal += row.Invoiced
		dashboard.OutstandingBalance += row.Outstanding
	}

	for _, row := range collected {
		month := dashboard.RevenueByMonth[row.ID]
		month.Collected = schemas.RoundCents(month.Collected + row.Collected)
		dashboard.RevenueByMonth[row.ID] = month

		dashboard.CollectedTotal += row.Collected
	}

	dashboard.InvoicedTotal = schemas.RoundCents(dashboard.InvoicedTotal)
	dashboard.CollectedTotal = schemas.RoundCents(dashboard.CollectedTotal)
	dashboard.OutstandingBalance = schemas.RoundCents(dashboard.OutstandingBalance)
}
