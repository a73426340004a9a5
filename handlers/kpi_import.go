package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/services"
)

// HandleKPIImportValidate receives a KPI file upload (.csv or .xlsx),
// validates it, and returns the per-row results plus the normalized records
// ready for confirmation.
// Route: POST /api/kpis/import/validate
func HandleKPIImportValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "File too large or invalid form data",
			})
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "Please select a file to upload",
			})
		}
		defer file.Close()

		result, err := services.ValidateKPIFile(file, header.Filename)
		if err != nil {
			log.Printf("kpi_import_validate: %v", err)
			return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"total_rows": result.TotalRows,
			"valid_rows": result.ValidRows,
			"error_rows": result.ErrorRows,
			"errors":     result.Errors,
			"records":    result.ParsedKPIs,
		})
	}
}

// HandleKPIImportConfirm saves previously validated KPI records posted back
// as JSON, then drops the snapshot cache so the next report reflects them.
// Route: POST /api/kpis/import/confirm
func HandleKPIImportConfirm(app *pocketbase.PocketBase, cache *services.SnapshotCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var records []services.KPI
		if err := json.NewDecoder(e.Request.Body).Decode(&records); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid record data"})
		}
		if len(records) == 0 {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "No records to import"})
		}

		col, err := app.FindCollectionByNameOrId(services.CollectionKPIs)
		if err != nil {
			log.Printf("kpi_import_confirm: collection not found: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		saved := 0
		for _, k := range records {
			rec := core.NewRecord(col)
			rec.Set("project_full_code", k.ProjectFullCode)
			rec.Set("project_code", k.ProjectCode)
			rec.Set("activity_name", k.ActivityName)
			rec.Set("input_type", k.InputType)
			rec.Set("quantity", k.Quantity)
			rec.Set("value", k.Value)
			rec.Set("actual_value", k.ActualValue)
			rec.Set("planned_value", k.PlannedValue)
			rec.Set("zone", k.Zone)
			rec.Set("target_date", k.TargetDate)
			rec.Set("actual_date", k.ActualDate)
			rec.Set("activity_date", k.ActivityDate)
			if err := app.Save(rec); err != nil {
				log.Printf("kpi_import_confirm: save record: %v", err)
				continue
			}
			saved++
		}

		cache.Invalidate()

		return e.JSON(http.StatusOK, map[string]any{
			"imported": saved,
			"failed":   len(records) - saved,
		})
	}
}

// HandleKPIImportErrorReport downloads validation errors as an Excel file.
// Route: POST /api/kpis/import/errors
func HandleKPIImportErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errors []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&errors); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid error data"})
		}

		xlsxBytes, err := services.GenerateErrorReport(errors)
		if err != nil {
			log.Printf("kpi_import_errors: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}

		filename := fmt.Sprintf("KPI-Import-Errors_%s.xlsx", time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
