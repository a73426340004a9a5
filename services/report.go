package services

import "time"

// ProjectReportRow is one project's per-period series in a financial report.
// The value slices are index-aligned with the report's period list.
type ProjectReportRow struct {
	ProjectID       string    `json:"project_id"`
	ProjectFullCode string    `json:"project_full_code"`
	ProjectName     string    `json:"project_name"`
	Currency        string    `json:"currency"`
	Earned          []float64 `json:"earned"`
	Planned         []float64 `json:"planned"`
	Virtual         []float64 `json:"virtual"`
	TotalEarned     float64   `json:"total_earned"`
	TotalPlanned    float64   `json:"total_planned"`
	TotalVirtual    float64   `json:"total_virtual"`
}

// FinancialReport is the period-bucketed earned/planned/virtual table the
// financial and monthly-revenue views render, and the Excel export
// serializes. GrandEarned et al. are the per-period column totals; the
// export's Grand Total row is their sum.
type FinancialReport struct {
	Periods      []Period           `json:"periods"`
	Rows         []ProjectReportRow `json:"rows"`
	GrandEarned  []float64          `json:"grand_earned"`
	GrandPlanned []float64          `json:"grand_planned"`
	GrandVirtual []float64          `json:"grand_virtual"`
}

// BuildFinancialReport evaluates the aggregator for every project and
// period. Planned values are not clamped to today (future planned work is a
// legitimate report column); Actual values are.
func BuildFinancialReport(projects []Project, activities []Activity, kpis []KPI, periods []Period, now time.Time) FinancialReport {
	idx := NewKPIIndex(kpis)
	byProject := groupActivities(projects, activities)

	report := FinancialReport{
		Periods:      periods,
		GrandEarned:  make([]float64, len(periods)),
		GrandPlanned: make([]float64, len(periods)),
		GrandVirtual: make([]float64, len(periods)),
	}

	actualOpts := DefaultAggregateOptions(InputTypeActual, now)
	plannedOpts := DefaultAggregateOptions(InputTypePlanned, now)

	for _, p := range projects {
		full := p.FullCode()
		acts := byProject[full]
		row := ProjectReportRow{
			ProjectID:       p.ID,
			ProjectFullCode: full,
			ProjectName:     p.Name,
			Currency:        p.Currency,
			Earned:          make([]float64, len(periods)),
			Planned:         make([]float64, len(periods)),
			Virtual:         make([]float64, len(periods)),
		}
		for i, period := range periods {
			earned, virtual := AggregateWithVirtual(idx.Actual(full), acts, p, period, InputTypeActual, actualOpts)
			planned := AggregateValue(idx.Planned(full), acts, p, period, InputTypePlanned, plannedOpts)

			row.Earned[i] = earned
			row.Planned[i] = planned
			row.Virtual[i] = virtual
			row.TotalEarned += earned
			row.TotalPlanned += planned
			row.TotalVirtual += virtual

			report.GrandEarned[i] += earned
			report.GrandPlanned[i] += planned
			report.GrandVirtual[i] += virtual
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// LookAheadReport is the forward-looking forecast table keyed by project and
// period.
type LookAheadReport struct {
	Periods []Period       `json:"periods"`
	Rows    []LookAheadRow `json:"rows"`
	Totals  []float64      `json:"totals"` // per-period column totals
}

// LookAheadRow carries one project's forecast: per-activity detail plus the
// per-period projected value series.
type LookAheadRow struct {
	ProjectID            string             `json:"project_id"`
	ProjectFullCode      string             `json:"project_full_code"`
	ProjectName          string             `json:"project_name"`
	LatestCompletionDate string             `json:"latest_completion_date"`
	Activities           []ActivitySchedule `json:"activities"`
	Forecast             []float64          `json:"forecast"`
}

// ActivitySchedule is the JSON shape of one activity's look-ahead state.
type ActivitySchedule struct {
	ActivityID          string  `json:"activity_id"`
	ActivityName        string  `json:"activity_name"`
	Zone                string  `json:"zone"`
	ActualUnits         float64 `json:"actual_units"`
	RemainingUnits      float64 `json:"remaining_units"`
	ActualProductivity  float64 `json:"actual_productivity"`
	PlannedProductivity float64 `json:"planned_productivity"`
	CompletionDate      string  `json:"completion_date"`
	Started             bool    `json:"started"`
	Completed           bool    `json:"completed"`
}

// BuildLookAheadReport forecasts every project over the given horizon.
// Projects with no remaining work are omitted: a finished project has no
// forecast row.
func BuildLookAheadReport(projects []Project, activities []Activity, kpis []KPI, start, end time.Time, now time.Time, isWorkingDay WorkingDayPredicate) LookAheadReport {
	periods := LookAheadPeriods(start, end)
	idx := NewKPIIndex(kpis)
	byProject := groupActivities(projects, activities)

	report := LookAheadReport{
		Periods: periods,
		Totals:  make([]float64, len(periods)),
	}
	for _, p := range projects {
		full := p.FullCode()
		pf, ok := ForecastProject(p, byProject[full], idx.ForProject(full), now, isWorkingDay)
		if !ok {
			continue
		}
		row := LookAheadRow{
			ProjectID:       p.ID,
			ProjectFullCode: full,
			ProjectName:     p.Name,
			Forecast:        ForecastSeries(pf, periods, isWorkingDay),
		}
		if !pf.LatestCompletionDate.IsZero() {
			row.LatestCompletionDate = pf.LatestCompletionDate.Format("2006-01-02")
		}
		for _, f := range pf.Activities {
			s := ActivitySchedule{
				ActivityID:          f.Activity.ID,
				ActivityName:        f.Activity.Name,
				Zone:                f.Activity.Zone,
				ActualUnits:         f.ActualUnits,
				RemainingUnits:      f.RemainingUnits,
				ActualProductivity:  f.ActualProductivity,
				PlannedProductivity: f.PlannedProductivity,
				Started:             f.Started,
				Completed:           f.Completed,
			}
			if !f.CompletionDate.IsZero() {
				s.CompletionDate = f.CompletionDate.Format("2006-01-02")
			}
			row.Activities = append(row.Activities, s)
		}
		for i, v := range row.Forecast {
			report.Totals[i] += v
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}
