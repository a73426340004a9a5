// Package services contains the earned-value reconciliation core: record
// normalization, activity-KPI matching, period bucketing, value aggregation,
// look-ahead forecasting and per-project analytics. Everything here operates
// on plain structs so it can be tested without a running app.
package services

import (
	"strings"
	"time"
)

// Input types carried by KPI records. Source data is not consistent about
// casing, so comparisons are always case-insensitive.
const (
	InputTypePlanned = "Planned"
	InputTypeActual  = "Actual"
)

// Project is a construction project as loaded from the projects collection.
type Project struct {
	ID                   string
	ProjectCode          string
	ProjectSubCode       string
	Name                 string
	Currency             string
	ContractAmount       float64
	ResponsibleDivision  string // comma-separated list of divisions
	ProjectStatus        string
	VirtualMaterialValue string // raw text, may carry "%" or a fraction
	WorkmanshipOnly      bool
}

// FullCode returns the project's full code. When the sub-code already embeds
// the code (e.g. "P4110-P" for code "P4110") it is used as-is; otherwise the
// two are joined with a dash. Projects without a sub-code use the bare code.
func (p Project) FullCode() string {
	code := strings.TrimSpace(p.ProjectCode)
	sub := strings.TrimSpace(p.ProjectSubCode)
	if sub == "" {
		return code
	}
	if code != "" && strings.Contains(strings.ToLower(sub), strings.ToLower(code)) {
		return sub
	}
	if code == "" {
		return sub
	}
	return code + "-" + sub
}

// Activity is a BOQ line item belonging to one project.
type Activity struct {
	ID                 string
	ProjectID          string
	ProjectFullCode    string
	Name               string
	Zone               string // free-text descriptor, possibly prefixed with the project code
	Unit               string
	Rate               float64
	TotalUnits         float64
	PlannedUnits       float64
	TotalValue         float64
	PlannedValue       float64
	EarnedValue        float64
	UseVirtualMaterial bool
	Division           string
	Deadline           string // raw date text, parsed on demand
	ProgressPercent    float64
	Delayed            bool
}

// KPI is a single quantity entry. Its owning activity is determined only by
// matching (see match.go); there is no reliable stored foreign key. Date
// fields stay as raw text because the source populates them inconsistently —
// consumers parse with ParseDate and skip records that fail.
type KPI struct {
	ID              string
	ProjectFullCode string
	ProjectCode     string
	ActivityName    string
	InputType       string // Planned or Actual, any casing
	Quantity        float64
	Value           float64 // direct monetary value, frequently mis-populated
	ActualValue     float64
	PlannedValue    float64
	Zone            string
	TargetDate      string
	ActualDate      string
	ActivityDate    string
}

// IsActual reports whether the record carries Actual semantics.
func (k KPI) IsActual() bool {
	return strings.EqualFold(strings.TrimSpace(k.InputType), InputTypeActual)
}

// IsPlanned reports whether the record carries Planned semantics.
func (k KPI) IsPlanned() bool {
	return strings.EqualFold(strings.TrimSpace(k.InputType), InputTypePlanned)
}

// CompareDate returns the date used to place this KPI in a period, resolved
// by input-type priority: Actual prefers the actual date, Planned prefers the
// target date, both falling back to the generic activity date. The second
// return is false when no field parses.
func (k KPI) CompareDate() (time.Time, bool) {
	var candidates []string
	if k.IsActual() {
		candidates = []string{k.ActualDate, k.ActivityDate, k.TargetDate}
	} else {
		candidates = []string{k.TargetDate, k.ActivityDate}
	}
	for _, c := range candidates {
		if t, ok := ParseDate(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Period is one bucket of the report timeline. Start is the first instant of
// the first day (00:00:00.000) and End the last instant of the last day
// (23:59:59.999). Periods are derived values and are never persisted.
type Period struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the period, boundaries inclusive.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// ProjectAnalytics is the per-project roll-up consumed by every report view.
type ProjectAnalytics struct {
	ProjectID           string  `json:"project_id"`
	ProjectFullCode     string  `json:"project_full_code"`
	ProjectName         string  `json:"project_name"`
	Currency            string  `json:"currency"`
	TotalContractValue  float64 `json:"total_contract_value"`
	TotalEarnedValue    float64 `json:"total_earned_value"`
	TotalPlannedValue   float64 `json:"total_planned_value"`
	TotalRemainingValue float64 `json:"total_remaining_value"`
	Variance            float64 `json:"variance"`
	ActualProgress      float64 `json:"actual_progress"`
	PlannedProgress     float64 `json:"planned_progress"`
	ProjectStatus       string  `json:"project_status"`
}

// Schedule health labels produced by the analytics roll-up.
const (
	StatusAhead   = "ahead"
	StatusOnTrack = "on_track"
	StatusDelayed = "delayed"
)
