package analytics

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func pipelineByStage(ctx context.Context, period utils.Period) ([]stageRow, error) {
	pipeline := matchStage(period.Filter("created_at"), bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$stage"},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "value", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		{Key: "weighted", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$divide", Value: bson.A{
			bson.D{{Key: "$multiply", Value: bson.A{"$amount", "$probability"}}},
			100,
		}}}}}},
	}}})
	return aggregate[stageRow](ctx, database.COLLECTION_OPPORTUNITIES, pipeline)
}

// foldPipeline sums open stages into the pipeline figures. Won and lost
// deals only count towards the win rate.
func foldPipeline(dashboard *schemas.Dashboard, rows []stageRow) {
	dashboard.PipelineByStage = make(map[string]schemas.StageSummary, len(schemas.Stages))
	for _, stage := range schemas.Stages {
		dashboard.PipelineByStage[stage] = schemas.StageSummary{}
	}

	var won, lost int64
	for _, row := range rows {
		summary := dashboard.PipelineByStage[row.ID]
		summary.Count += row.Count
		summary.Value = schemas.RoundCents(summary.Value + row.Value)
		dashboard.PipelineByStage[row.ID] = summary

		switch row.ID {
		case schemas.STAGE_WON:
			won += row.Count
		case schemas.STAGE_LOST:
			lost += row.Count
		default:
			dashboard.PipelineValue += row.Value
			dashboard.WeightedPipeline += row.Weighted
		}
	}

	dashboard.PipelineValue = schemas.RoundCents(dashboard.PipelineValue)
	dashboard.WeightedPipeline = schemas.RoundCents(dashboard.WeightedPipeline)
	dashboard.WinRate = schemas.RoundCents(ratio(float64(won), float64(won+lost)) * 100)
}
