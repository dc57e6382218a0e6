package analytics

import (
	"crm/schemas"
	"crm/utils"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMatchStageSkipsEmptyFilter(t *testing.T) {
	pipeline := matchStage(bson.D{}, countBy("status"))

	require.Len(t, pipeline, 1)
	assert.Equal(t, "$group", pipeline[0].(bson.D)[0].Key)

	pipeline = matchStage(bson.D{{Key: "status", Value: "Ouvert"}}, countBy("status"))
	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0].(bson.D)[0].Key)
}

func TestFoldProspects(t *testing.T) {
	dashboard := schemas.Dashboard{}

	foldProspects(&dashboard, []groupCount{
		{ID: schemas.PROSPECT_STATUS_NEW, Count: 5},
		{ID: schemas.PROSPECT_STATUS_CONVERTED, Count: 2},
		{ID: schemas.PROSPECT_STATUS_LOST, Count: 1},
	})

	assert.Equal(t, int64(8), dashboard.ProspectsTotal)
	assert.Equal(t, 25.0, dashboard.ConversionRate)
	assert.Equal(t, int64(0), dashboard.ProspectsByStatus[schemas.PROSPECT_STATUS_QUALIFIED])
}

func TestFoldProspectsEmpty(t *testing.T) {
	dashboard := schemas.Dashboard{}

	foldProspects(&dashboard, nil)

	assert.Zero(t, dashboard.ConversionRate)
	assert.Len(t, dashboard.ProspectsByStatus, len(schemas.ProspectStatuses))
}

func TestFoldPipeline(t *testing.T) {
	dashboard := schemas.Dashboard{}

	foldPipeline(&dashboard, []stageRow{
		{ID: schemas.STAGE_DISCOVERY, Count: 2, Value: 10000, Weighted: 1000},
		{ID: schemas.STAGE_NEGOTIATION, Count: 1, Value: 5000, Weighted: 3500},
		{ID: schemas.STAGE_WON, Count: 3, Value: 9000, Weighted: 9000},
		{ID: schemas.STAGE_LOST, Count: 1, Value: 2000},
	})

	assert.Equal(t, 15000.0, dashboard.PipelineValue)
	assert.Equal(t, 4500.0, dashboard.WeightedPipeline)
	assert.Equal(t, 75.0, dashboard.WinRate)
	assert.Equal(t, schemas.StageSummary{Count: 3, Value: 9000}, dashboard.PipelineByStage[schemas.STAGE_WON])
	assert.Equal(t, schemas.StageSummary{}, dashboard.PipelineByStage[schemas.STAGE_PROPOSAL])
}

func TestFoldRevenue(t *testing.T) {
	dashboard := schemas.Dashboard{}

	foldRevenue(&dashboard,
		[]monthRow{
			{ID: "2026-01", Invoiced: 1200, Outstanding: 200},
			{ID: "2026-02", Invoiced: 600, Outstanding: 600},
		},
		[]monthRow{
			{ID: "2026-01", Collected: 700},
			{ID: "2026-03", Collected: 300},
		},
	)

	assert.Equal(t, schemas.MonthlyRevenue{Invoiced: 1200, Collected: 700}, dashboard.RevenueByMonth["2026-01"])
	assert.Equal(t, schemas.MonthlyRevenue{Collected: 300}, dashboard.RevenueByMonth["2026-03"])
	assert.Equal(t, 1800.0, dashboard.InvoicedTotal)
	assert.Equal(t, 1000.0, dashboard.CollectedTotal)
	assert.Equal(t, 800.0, dashboard.OutstandingBalance)
}

func TestFoldTickets(t *testing.T) {
	dashboard := schemas.Dashboard{}

	foldTickets(&dashboard, ticketRows{
		byStatus:   []groupCount{{ID: schemas.TICKET_STATUS_OPEN, Count: 4}},
		byPriority: []groupCount{{ID: schemas.TICKET_PRIORITY_URGENT, Count: 1}},
		resolution: []averageRow{{Average: 12.25, Count: 3}},
	})

	assert.Equal(t, int64(4), dashboard.TicketsByStatus[schemas.TICKET_STATUS_OPEN])
	assert.Equal(t, int64(0), dashboard.TicketsByStatus[schemas.TICKET_STATUS_CLOSED])
	assert.Equal(t, int64(1), dashboard.TicketsByPriority[schemas.TICKET_PRIORITY_URGENT])
	assert.Equal(t, 12.25, dashboard.AverageResolutionHours)
}

func TestCacheKeyDependsOnPeriod(t *testing.T) {
	open := cacheKey(utils.ParsePeriod(url.Values{}))
	january := cacheKey(utils.ParsePeriod(url.Values{"from": {"2026-01-01"}, "until": {"2026-01-31"}}))

	assert.Equal(t, "crm:analytics:dashboard:-_-", open)
	assert.NotEqual(t, open, january)
}
