package services

import "time"

// scheduleMargin is the banding, in percentage points, separating on-track
// from ahead/delayed when comparing actual against planned progress. The
// source system only compared directionally; ±5pp is this implementation's
// documented choice.
const scheduleMargin = 5.0

// ComputeProjectAnalytics produces the per-project summary every report view
// consumes.
//
// Earned value sums all Actual entries across all time (the today-clamp makes
// "all time" effectively "through today"). The planned baseline is cut off at
// yesterday: planned work not yet due does not count against the project, so
// variance compares what was earned with what should already have been done.
func ComputeProjectAnalytics(p Project, activities []Activity, kpis []KPI, now time.Time) ProjectAnalytics {
	all := allTimePeriod()

	earned := AggregateValue(kpis, activities, p, all, InputTypeActual,
		DefaultAggregateOptions(InputTypeActual, now))

	plannedPeriod := all
	plannedPeriod.End = endOfDay(now.AddDate(0, 0, -1))
	planned := AggregateValue(kpis, activities, p, plannedPeriod, InputTypePlanned,
		DefaultAggregateOptions(InputTypePlanned, now))

	a := ProjectAnalytics{
		ProjectID:          p.ID,
		ProjectFullCode:    p.FullCode(),
		ProjectName:        p.Name,
		Currency:           p.Currency,
		TotalContractValue: p.ContractAmount,
		TotalEarnedValue:   earned,
		TotalPlannedValue:  planned,
		Variance:           earned - planned,
	}
	a.TotalRemainingValue = a.TotalContractValue - a.TotalEarnedValue
	if a.TotalContractValue > 0 {
		a.ActualProgress = earned / a.TotalContractValue * 100
		a.PlannedProgress = planned / a.TotalContractValue * 100
	}
	a.ProjectStatus = scheduleStatus(a.ActualProgress, a.PlannedProgress)
	return a
}

// scheduleStatus bands the actual-vs-planned progress gap.
func scheduleStatus(actual, planned float64) string {
	switch {
	case actual < planned-scheduleMargin:
		return StatusDelayed
	case actual > planned+scheduleMargin:
		return StatusAhead
	default:
		return StatusOnTrack
	}
}

// ComputeAllAnalytics rolls up every project, partitioning activities and
// KPIs per project via the index so the per-project passes stay linear.
func ComputeAllAnalytics(projects []Project, activities []Activity, kpis []KPI, now time.Time) []ProjectAnalytics {
	idx := NewKPIIndex(kpis)
	byProject := groupActivities(projects, activities)

	results := make([]ProjectAnalytics, 0, len(projects))
	for _, p := range projects {
		full := p.FullCode()
		results = append(results, ComputeProjectAnalytics(p, byProject[full], idx.ForProject(full), now))
	}
	return results
}

// groupActivities buckets activities by their owning project's full code,
// falling back to the project id relation when the code is absent.
func groupActivities(projects []Project, activities []Activity) map[string][]Activity {
	idToFull := make(map[string]string, len(projects))
	for _, p := range projects {
		idToFull[p.ID] = p.FullCode()
	}
	out := make(map[string][]Activity)
	for _, a := range activities {
		key := a.ProjectFullCode
		if key == "" {
			key = idToFull[a.ProjectID]
		}
		if key == "" {
			continue
		}
		out[key] = append(out[key], a)
	}
	return out
}
