package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleReportExportExcel returns a handler that generates and downloads the
// financial report workbook. Accepts the same granularity/range/filter
// parameters as the financial view.
func HandleReportExportExcel(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		snap, err := services.LoadSnapshot(app, cache, now, false)
		if err != nil {
			log.Printf("report_export_excel: %v", err)
			return e.String(http.StatusServiceUnavailable, "Failed to load report data")
		}

		projects := filterFromRequest(e.Request).Apply(snap.Projects)
		periods := periodsFromRequest(e.Request, now)
		report := services.BuildFinancialReport(projects, snap.Activities, snap.KPIs, periods, now)

		title := "Financial Report " + now.Format("Jan 2006")
		xlsxBytes, err := services.GenerateFinancialExcel(report, title)
		if err != nil {
			log.Printf("report_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Financial-Report_%s.xlsx", sanitizeFilename(now.Format("2006-01-02")))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleReportExportPDF returns a handler that generates and downloads the
// portfolio analytics summary PDF.
func HandleReportExportPDF(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		now := time.Now()
		snap, err := services.LoadSnapshot(app, cache, now, false)
		if err != nil {
			log.Printf("report_export_pdf: %v", err)
			return e.String(http.StatusServiceUnavailable, "Failed to load report data")
		}

		projects := filterFromRequest(e.Request).Apply(snap.Projects)
		analytics := services.ComputeAllAnalytics(projects, snap.Activities, snap.KPIs, now)

		pdfBytes, err := services.GenerateAnalyticsPDF(
			"Portfolio Performance Summary",
			now.Format("02 Jan 2006"),
			analytics,
		)
		if err != nil {
			log.Printf("report_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Portfolio-Summary_%s.pdf", sanitizeFilename(now.Format("2006-01-02")))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
