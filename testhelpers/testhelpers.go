// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectreports/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, code, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project_code", code)
	record.Set("name", name)
	record.Set("currency", "AED")
	record.Set("contract_amount", 1000000.0)
	record.Set("project_status", "on-going")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestActivity creates a boq_activities record linked to a project.
func CreateTestActivity(t *testing.T, app *pocketbase.PocketBase, projectID, fullCode, name string, totalUnits, totalValue float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("boq_activities")
	if err != nil {
		t.Fatalf("failed to find boq_activities collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("project_full_code", fullCode)
	record.Set("activity_name", name)
	record.Set("unit", "m3")
	record.Set("total_units", totalUnits)
	record.Set("planned_units", totalUnits)
	record.Set("total_value", totalValue)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test activity: %v", err)
	}

	return record
}

// CreateTestKPI creates a kpi_records record.
func CreateTestKPI(t *testing.T, app *pocketbase.PocketBase, fullCode, activityName, inputType string, quantity float64, date string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("kpi_records")
	if err != nil {
		t.Fatalf("failed to find kpi_records collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project_full_code", fullCode)
	record.Set("activity_name", activityName)
	record.Set("input_type", inputType)
	record.Set("quantity", quantity)
	if strings.EqualFold(inputType, "Actual") {
		record.Set("actual_date", date)
	} else {
		record.Set("target_date", date)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test KPI: %v", err)
	}

	return record
}

// AssertJSONContains checks that a JSON response body contains all fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
