package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projectreports/services"
)

func TestReportFilter_Apply(t *testing.T) {
	projects := []services.Project{
		{ID: "p1", ProjectCode: "P4110", ProjectStatus: "on-going", ResponsibleDivision: "Civil, MEP"},
		{ID: "p2", ProjectCode: "P4110", ProjectSubCode: "P4110-P", ProjectStatus: "on-going", ResponsibleDivision: "Civil"},
		{ID: "p3", ProjectCode: "P5230", ProjectStatus: "completed-duration", ResponsibleDivision: "Infrastructure"},
	}

	tests := []struct {
		name    string
		filter  ReportFilter
		wantIDs []string
	}{
		{"no filter keeps all", ReportFilter{}, []string{"p1", "p2", "p3"}},
		{"by full code", ReportFilter{ProjectFullCode: "P4110"}, []string{"p1"}},
		{"sub-coded full code", ReportFilter{ProjectFullCode: "p4110-p"}, []string{"p2"}},
		{"by status", ReportFilter{Status: "ON-GOING"}, []string{"p1", "p2"}},
		{"by division membership", ReportFilter{Division: "mep"}, []string{"p1"}},
		{"combined", ReportFilter{Status: "on-going", Division: "Civil"}, []string{"p1", "p2"}},
		{"no match", ReportFilter{ProjectFullCode: "P9999"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(projects)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d projects, want %d", len(got), len(tt.wantIDs))
			}
			for i, p := range got {
				if p.ID != tt.wantIDs[i] {
					t.Errorf("result[%d] = %q, want %q", i, p.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestFilterFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/reports/overview?project=P4110&status=on-going&division=Civil", nil)
	f := filterFromRequest(req)
	if f.ProjectFullCode != "P4110" || f.Status != "on-going" || f.Division != "Civil" {
		t.Errorf("filter = %+v", f)
	}
}

func TestPeriodsFromRequest(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local)

	t.Run("explicit range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/financial?granularity=weekly&start=2024-01-01&end=2024-01-20", nil)
		periods := periodsFromRequest(req, now)
		if len(periods) != 3 {
			t.Errorf("got %d periods, want 3", len(periods))
		}
	})

	t.Run("default trailing months", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/financial", nil)
		periods := periodsFromRequest(req, now)
		if len(periods) == 0 {
			t.Fatal("expected default trailing periods")
		}
		if !periods[len(periods)-1].Contains(now) {
			t.Error("trailing window should end at now")
		}
	})

	t.Run("unknown granularity falls back to monthly", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/financial?granularity=fortnightly&start=2024-01-01&end=2024-03-31", nil)
		periods := periodsFromRequest(req, now)
		if len(periods) != 3 {
			t.Errorf("got %d periods, want 3 monthly buckets", len(periods))
		}
	})

	t.Run("partial range ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/financial?start=2024-01-01", nil)
		periods := periodsFromRequest(req, now)
		if !periods[len(periods)-1].Contains(now) {
			t.Error("start without end should fall back to the trailing window")
		}
	})
}
