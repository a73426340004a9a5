package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/services"
)

// HandleReportFinancial returns a handler serving the period-bucketed
// earned/planned/virtual table. Accepts granularity, start, end and the
// standard project filters.
func HandleReportFinancial(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		snap, err := services.LoadSnapshot(app, cache, now, false)
		if err != nil {
			log.Printf("report_financial: %v", err)
			return e.JSON(http.StatusServiceUnavailable, loadError{
				Error:     "Failed to load report data: " + err.Error(),
				Retryable: true,
			})
		}

		projects := filterFromRequest(e.Request).Apply(snap.Projects)
		periods := periodsFromRequest(e.Request, now)
		report := services.BuildFinancialReport(projects, snap.Activities, snap.KPIs, periods, now)

		return e.JSON(http.StatusOK, report)
	}
}

// HandleReportMonthlyRevenue returns a handler serving the monthly revenue
// view: twelve calendar-month buckets of one year (?year=2024, defaulting to
// the current year).
func HandleReportMonthlyRevenue(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		snap, err := services.LoadSnapshot(app, cache, now, false)
		if err != nil {
			log.Printf("report_monthly: %v", err)
			return e.JSON(http.StatusServiceUnavailable, loadError{
				Error:     "Failed to load report data: " + err.Error(),
				Retryable: true,
			})
		}

		year := now.Year()
		if y, ok := services.ParseDate(e.Request.URL.Query().Get("year") + "-01-01"); ok {
			year = y.Year()
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)
		periods := services.BuildPeriods(services.Monthly, start, end)

		projects := filterFromRequest(e.Request).Apply(snap.Projects)
		report := services.BuildFinancialReport(projects, snap.Activities, snap.KPIs, periods, now)

		return e.JSON(http.StatusOK, report)
	}
}
