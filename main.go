package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/collections"
	"projectreports/handlers"
	"projectreports/services"
)

func main() {
	app := pocketbase.New()

	cache := services.NewSnapshotCache(services.DefaultCacheTTL)

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateZonePrefixes(app); err != nil {
			log.Printf("Warning: zone prefix migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Report data + cache ──────────────────────────────────
		se.Router.GET("/api/reports/data", handlers.HandleReportData(app, cache))
		se.Router.POST("/api/reports/cache/invalidate", handlers.HandleCacheInvalidate(cache))

		// ── Report views ─────────────────────────────────────────
		se.Router.GET("/api/reports/overview", handlers.HandleReportOverview(app, cache))
		se.Router.GET("/api/reports/financial", handlers.HandleReportFinancial(app, cache))
		se.Router.GET("/api/reports/monthly-revenue", handlers.HandleReportMonthlyRevenue(app, cache))
		se.Router.GET("/api/reports/lookahead", handlers.HandleReportLookAhead(app, cache))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/api/reports/export/excel", handlers.HandleReportExportExcel(app, cache))
		se.Router.GET("/api/reports/export/pdf", handlers.HandleReportExportPDF(app, cache))

		// ── KPI import ───────────────────────────────────────────
		se.Router.POST("/api/kpis/import/validate", handlers.HandleKPIImportValidate(app))
		se.Router.POST("/api/kpis/import/confirm", handlers.HandleKPIImportConfirm(app, cache))
		se.Router.POST("/api/kpis/import/errors", handlers.HandleKPIImportErrorReport())

		return se.Next()
	})

	// Drop stale snapshots whenever report source records change.
	invalidate := func(e *core.RecordEvent) error {
		switch e.Record.Collection().Name {
		case services.CollectionProjects, services.CollectionActivities, services.CollectionKPIs:
			cache.Invalidate()
		}
		return e.Next()
	}
	app.OnRecordAfterCreateSuccess().BindFunc(invalidate)
	app.OnRecordAfterUpdateSuccess().BindFunc(invalidate)
	app.OnRecordAfterDeleteSuccess().BindFunc(invalidate)

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
