package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/services"
)

// HandleReportOverview returns a handler serving the per-project analytics
// roll-up (contract, earned, planned, variance, progress, schedule status),
// with the standard project filters applied.
func HandleReportOverview(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		snap, err := services.LoadSnapshot(app, cache, now, false)
		if err != nil {
			log.Printf("report_overview: %v", err)
			return e.JSON(http.StatusServiceUnavailable, loadError{
				Error:     "Failed to load report data: " + err.Error(),
				Retryable: true,
			})
		}

		projects := filterFromRequest(e.Request).Apply(snap.Projects)
		analytics := services.ComputeAllAnalytics(projects, snap.Activities, snap.KPIs, now)

		var totalContract, totalEarned, totalPlanned float64
		for _, a := range analytics {
			totalContract += a.TotalContractValue
			totalEarned += a.TotalEarnedValue
			totalPlanned += a.TotalPlannedValue
		}

		return e.JSON(http.StatusOK, map[string]any{
			"projects":             analytics,
			"total_contract_value": totalContract,
			"total_earned_value":   totalEarned,
			"total_planned_value":  totalPlanned,
			"total_variance":       totalEarned - totalPlanned,
		})
	}
}
