package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/services"
)

// HandleReportLookAhead returns a handler serving the forward-looking
// forecast: per-activity remaining units, productivity and projected
// completion, plus per-period forecast values over the requested horizon
// (?days=30, default 30, capped at 365). Fully completed projects carry no
// forecast information and are omitted.
func HandleReportLookAhead(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		snap, err := services.LoadSnapshot(app, cache, now, false)
		if err != nil {
			log.Printf("report_lookahead: %v", err)
			return e.JSON(http.StatusServiceUnavailable, loadError{
				Error:     "Failed to load report data: " + err.Error(),
				Retryable: true,
			})
		}

		days := 30
		if d, err := strconv.Atoi(e.Request.URL.Query().Get("days")); err == nil && d > 0 {
			days = d
		}
		if days > 365 {
			days = 365
		}

		projects := filterFromRequest(e.Request).Apply(snap.Projects)
		report := services.BuildLookAheadReport(
			projects, snap.Activities, snap.KPIs,
			now, now.AddDate(0, 0, days),
			now, services.DefaultWorkingDay,
		)

		return e.JSON(http.StatusOK, report)
	}
}
