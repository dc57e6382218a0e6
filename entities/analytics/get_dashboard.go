package analytics

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const CACHE_TTL = 5 * time.Minute

func cacheKey(period utils.Period) string {
	return "crm:analytics:dashboard:" + period.Key()
}

// BuildDashboard runs every aggregation concurrently. Each goroutine owns
// its own section of the result.
func BuildDashboard(ctx context.Context, period utils.Period, now time.Time) (schemas.Dashboard, error) {
	dashboard := schemas.Dashboard{GeneratedAt: now}

	var (
		prospects  []groupCount
		stages     []stageRow
		invoiced   []monthRow
		collected  []monthRow
		ticketData ticketRows
	)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		prospects, err = prospectsByStatus(ctx, period)
		return err
	})
	group.Go(func() (err error) {
		stages, err = pipelineByStage(ctx, period)
		return err
	})
	group.Go(func() (err error) {
		invoiced, err = invoicedByMonth(ctx, period)
		return err
	})
	group.Go(func() (err error) {
		collected, err = collectedByMonth(ctx, period)
		return err
	})
	group.Go(func() (err error) {
		ticketData, err = ticketFigures(ctx, period)
		return err
	})

	if err := group.Wait(); err != nil {
		return dashboard, err
	}

	foldProspects(&dashboard, prospects)
	foldPipeline(&dashboard, stages)
	foldRevenue(&dashboard, invoiced, collected)
	foldTickets(&dashboard, ticketData)

	return dashboard, nil
}

// GetDashboard serves the cached dashboard for the requested period.
// refresh=true skips the cache.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	period := utils.ParsePeriod(params)
	key := cacheKey(period)

	ctx, cancel := database.Timeout(r.Context())
	defer cancel()

	if params.Get("refresh") != "true" {
		cached := schemas.Dashboard{}
		hit, err := database.CacheGet(ctx, key, &cached)
		if err != nil {
			zap.L().Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			utils.SendResponse(w, http.StatusOK, "", cached, 0)
			return
		}
	}

	dashboard, err := BuildDashboard(ctx, period, time.Now())
	if err != nil {
		utils.SendFailure(w, r, http.StatusInternalServerError, utils.CANNOT_AGGREGATE_ANALYTICS, err)
		return
	}

	if err := database.CacheSet(ctx, key, dashboard, CACHE_TTL); err != nil {
		zap.L().Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}

	utils.SendResponse(w, http.StatusOK, "", dashboard, 0)
}
