package analytics

import (
	"context"
	"crm/database"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type groupCount struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

type stageRow struct {
	ID       string  `bson:"_id"`
	Count    int64   `bson:"count"`
	Value    float64 `bson:"value"`
	Weighted float64 `bson:"weighted"`
}

type monthRow struct {
	ID          string  `bson:"_id"`
	Invoiced    float64 `bson:"invoiced"`
	Outstanding float64 `bson:"outstanding"`
	Collected   float64 `bson:"collected"`
}

type averageRow struct {
	Average float64 `bson:"average"`
	Count   int64   `bson:"count"`
}

func aggregate[T any](ctx context.Context, collection string, pipeline bson.A) ([]T, error) {
	cursor, err := database.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []T{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// matchStage prepends a $match when filter is not empty.
func matchStage(filter bson.D, rest ...bson.D) bson.A {
	pipeline := bson.A{}
	if len(filter) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: filter}})
	}
	for _, stage := range rest {
		pipeline = append(pipeline, stage)
	}
	return pipeline
}

func countBy(field string) bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$" + field},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}}
}

func monthOf(field string) bson.D {
	return bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: "%Y-%m"},
		{Key: "date", Value: "$" + field},
	}}}
}

func ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}
