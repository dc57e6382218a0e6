// Package legacy imports records from the previous CRM's MySQL database.
package legacy

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	IMPORT_BATCH_SIZE = 500

	legacyProspectsQuery = `SELECT id, company, contact_name, email, phone, source, status, notes, created_at
		FROM prospects ORDER BY id`
)

// rowScanner is the part of *sql.Rows the import reads.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type importResult struct {
	Imported int64 `json:"imported"`
	Skipped  int64 `json:"skipped"`
}

func readLegacyProspects(rows rowScanner) ([]schemas.LegacyProspect, error) {
	prospects := []schemas.LegacyProspect{}

	for rows.Next() {
		row := schemas.LegacyProspect{}
		if err := rows.Scan(
			&row.ID,
			&row.Company,
			&row.ContactName,
			&row.Email,
			&row.Phone,
			&row.Source,
			&row.Status,
			&row.Notes,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		prospects = append(prospects, row)
	}

	return prospects, rows.Err()
}

// upsertModels inserts each prospect unless one with the same legacy_id
// already exists. Existing documents are left untouched.
func upsertModels(legacy []schemas.LegacyProspect, now time.Time) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(legacy))

	for _, row := range legacy {
		prospect := row.ToProspect(now)
		prospect.ID = bson.NewObjectID()

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "legacy_id", Value: row.ID}}).
			SetUpdate(bson.D{{Key: "$setOnInsert", Value: prospect}}).
			SetUpsert(true))
	}

	return models
}

func importBatches(ctx context.Context, legacy []schemas.LegacyProspect, now time.Time) (importResult, error) {
	result := importResult{}
	collection := database.Collection(database.COLLECTION_PROSPECTS)

	for start := 0; start < len(legacy); start += IMPORT_BATCH_SIZE {
		batch := legacy[start:min(start+IMPORT_BATCH_SIZE, len(legacy))]

		written, err := collection.BulkWrite(ctx, upsertModels(batch, now), options.BulkWrite().SetOrdered(false))
		if err != nil {
			return result, err
		}

		result.Imported += written.UpsertedCount
		result.Skipped += int64(len(batch)) - written.UpsertedCount
	}

	return result, nil
}

func ImportProspects(w http.ResponseWriter, r *http.Request) {
	db := database.MySQL()
	if db == nil {
		utils.SendResponse(w, http.StatusServiceUnavailable, "La base de l'ancien CRM n'est pas configurée", nil, 0)
		return
	}

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	rows, err := db.QueryContext(ctx, legacyProspectsQuery)
	if err != nil {
		utils.SendFailure(w, r, http.StatusBadGateway, utils.CANNOT_QUERY_LEGACY_MYSQL, err)
		return
	}
	defer rows.Close()

	legacy, err := readLegacyProspects(rows)
	if err != nil {
		utils.SendFailure(w, r, http.StatusBadGateway, utils.CANNOT_QUERY_LEGACY_MYSQL, err)
		return
	}

	result, err := importBatches(ctx, legacy, time.Now())
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_IMPORT_LEGACY_PROSPECT, err)
		return
	}

	zap.L().Info("legacy prospects imported",
		zap.Int("read", len(legacy)),
		zap.Int64("imported", result.Imported),
		zap.Int64("skipped", result.Skipped),
	)

	utils.SendResponse(w, http.StatusOK, "", result, 0)
}
