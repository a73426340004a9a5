package handlers

import (
	"net/http"
	"strings"
	"time"

	"projectreports/services"
)

// ReportFilter is the project-level filter every report view accepts via
// query parameters: ?project=P4110&status=on-going&division=Civil.
type ReportFilter struct {
	ProjectFullCode string
	Status          string
	Division        string
}

// filterFromRequest reads the filter query parameters.
func filterFromRequest(r *http.Request) ReportFilter {
	q := r.URL.Query()
	return ReportFilter{
		ProjectFullCode: strings.TrimSpace(q.Get("project")),
		Status:          strings.TrimSpace(q.Get("status")),
		Division:        strings.TrimSpace(q.Get("division")),
	}
}

// Apply returns the projects passing the filter. Division matching checks
// membership in the project's comma-separated responsible_division list.
func (f ReportFilter) Apply(projects []services.Project) []services.Project {
	var out []services.Project
	for _, p := range projects {
		if f.ProjectFullCode != "" && !strings.EqualFold(p.FullCode(), f.ProjectFullCode) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(p.ProjectStatus, f.Status) {
			continue
		}
		if f.Division != "" && !divisionListContains(p.ResponsibleDivision, f.Division) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func divisionListContains(list, division string) bool {
	for _, d := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(d), division) {
			return true
		}
	}
	return false
}

// periodsFromRequest resolves the period list for a report: explicit
// start/end when supplied (and parseable), otherwise the granularity's
// default trailing window ending now.
func periodsFromRequest(r *http.Request, now time.Time) []services.Period {
	q := r.URL.Query()
	g := services.Granularity(strings.ToLower(strings.TrimSpace(q.Get("granularity"))))
	switch g {
	case services.Daily, services.Weekly, services.Monthly, services.Quarterly, services.Yearly:
	default:
		g = services.Monthly
	}

	start, okStart := services.ParseDate(q.Get("start"))
	end, okEnd := services.ParseDate(q.Get("end"))
	if okStart && okEnd {
		return services.BuildPeriods(g, start, end)
	}
	return services.TrailingPeriods(g, now)
}
