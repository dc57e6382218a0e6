package analytics

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"
)

func prospectsByStatus(ctx context.Context, period utils.Period) ([]groupCount, error) {
	pipeline := matchStage(period.Filter("created_at"), countBy("status"))
	return aggregate[groupCount](ctx, database.COLLECTION_PROSPECTS, pipeline)
}

func foldProspects(dashboard *schemas.Dashboard, rows []groupCount) {
	dashboard.ProspectsByStatus = make(map[string]int64, len(schemas.ProspectStatuses))
	for _, status := range schemas.ProspectStatuses {
		dashboard.ProspectsByStatus[status] = 0
	}

	for _, row := range rows {
		dashboard.ProspectsByStatus[row.ID] += row.Count
		dashboard.ProspectsTotal += row.Count
	}

	converted := dashboard.ProspectsByStatus[schemas.PROSPECT_STATUS_CONVERTED]
	dashboard.ConversionRate = schemas.RoundCents(ratio(float64(converted), float64(dashboard.ProspectsTotal)) * 100)
}
