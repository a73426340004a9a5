package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/services"
)

// loadError is the payload for a failed top-level data load. Retryable tells
// the dashboard to offer its manual retry action.
type loadError struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// HandleReportData returns a handler serving the raw report snapshot:
// projects, activities, KPI records and per-project analytics. Served from
// the snapshot cache while fresh; ?refresh=1 forces a reload.
func HandleReportData(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		refresh := e.Request.URL.Query().Get("refresh") == "1"

		snap, err := services.LoadSnapshot(app, cache, time.Now(), refresh)
		if err != nil {
			log.Printf("report_data: %v", err)
			return e.JSON(http.StatusServiceUnavailable, loadError{
				Error:     "Failed to load report data: " + err.Error(),
				Retryable: true,
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"projects":   snap.Projects,
			"activities": snap.Activities,
			"kpis":       snap.KPIs,
			"analytics":  snap.Analytics,
			"fetched_at": snap.FetchedAt,
		})
	}
}

// HandleCacheInvalidate drops the snapshot cache so the next load refetches.
func HandleCacheInvalidate(cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cache.Invalidate()
		return e.NoContent(http.StatusNoContent)
	}
}
