package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"projectreports/services"
	"projectreports/testhelpers"
)

func uploadRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/kpis/import/validate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleKPIImportValidate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleKPIImportValidate(app)

	csv := `Project Full Code,Activity Name,Input Type,Quantity,Actual Date
P4110,Excavation,Actual,100,2024-03-15
P4110,Blockwork,Forecast,abc,2024-03-16`

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, uploadRequest(t, "kpis.csv", csv), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(),
		`"total_rows":2`, `"valid_rows":1`, `"error_rows":1`,
		`Input Type must be`, `is not a number`)
}

func TestHandleKPIImportValidate_UnsupportedFormat(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleKPIImportValidate(app)

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, uploadRequest(t, "kpis.txt", "whatever"), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "unsupported file format")
}

func TestHandleKPIImportValidate_NoFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleKPIImportValidate(app)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/kpis/import/validate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleKPIImportConfirm(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cache := services.NewSnapshotCache(30 * time.Minute)

	// Prime the cache so we can observe the invalidation.
	if _, err := services.LoadSnapshot(app, cache, time.Now(), false); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	records := []services.KPI{
		{ProjectFullCode: "P4110", ActivityName: "Excavation", InputType: "Actual", Quantity: 100, ActualDate: "2024-03-15"},
		{ProjectFullCode: "P4110", ActivityName: "Blockwork", InputType: "Planned", Quantity: 50, TargetDate: "2024-04-01"},
	}
	body, _ := json.Marshal(records)

	req := httptest.NewRequest(http.MethodPost, "/api/kpis/import/confirm", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	if err := HandleKPIImportConfirm(app, cache)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), `"imported":2`, `"failed":0`)

	if _, ok := cache.Get(time.Now()); ok {
		t.Error("cache should be invalidated after import")
	}

	saved, err := app.FindRecordsByFilter(services.CollectionKPIs, "id != ''", "-created", 0, 0)
	if err != nil {
		t.Fatalf("find saved records: %v", err)
	}
	if len(saved) != 2 {
		t.Errorf("expected 2 saved KPI records, got %d", len(saved))
	}
}

func TestHandleKPIImportConfirm_EmptyPayload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cache := services.NewSnapshotCache(30 * time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/kpis/import/confirm", strings.NewReader("[]"))
	rec := httptest.NewRecorder()
	if err := HandleKPIImportConfirm(app, cache)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleKPIImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleKPIImportErrorReport()

	errs := []services.ValidationError{
		{Row: 2, Field: "Quantity", Message: "Quantity \"abc\" is not a number"},
	}
	body, _ := json.Marshal(errs)

	req := httptest.NewRequest(http.MethodPost, "/api/kpis/import/errors", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected xlsx bytes")
	}
}
