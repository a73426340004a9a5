package services

import (
	"math"
	"time"
)

// WorkingDayPredicate reports whether a date counts as a working day for
// schedule projection.
type WorkingDayPredicate func(time.Time) bool

// DefaultWorkingDay implements the regional work week: Friday and Saturday
// are off. Pass a different predicate to ForecastActivity when porting to
// another locale.
func DefaultWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Friday && wd != time.Saturday
}

// CountWorkingDays counts working days in [start, end] inclusive.
func CountWorkingDays(start, end time.Time, isWorkingDay WorkingDayPredicate) int {
	if isWorkingDay == nil {
		isWorkingDay = DefaultWorkingDay
	}
	n := 0
	for d := startOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if isWorkingDay(d) {
			n++
		}
	}
	return n
}

// AddWorkingDays advances from the given date by n working days, skipping
// non-working days along the way.
func AddWorkingDays(from time.Time, n int, isWorkingDay WorkingDayPredicate) time.Time {
	if isWorkingDay == nil {
		isWorkingDay = DefaultWorkingDay
	}
	d := startOfDay(from)
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if isWorkingDay(d) {
			n--
		}
	}
	return d
}

// ActivityForecast is the derived look-ahead state of one activity. It is
// recomputed from the source arrays on every filter change and never stored.
type ActivityForecast struct {
	Activity            Activity
	ActualUnits         float64
	RemainingUnits      float64
	ActualProductivity  float64 // units per elapsed calendar day
	PlannedProductivity float64
	Productivity        float64 // effective rate used for projection
	CompletionDate      time.Time
	Started             bool
	Completed           bool
}

// ProjectForecast aggregates activity forecasts for one project.
type ProjectForecast struct {
	Project              Project
	Activities           []ActivityForecast
	LatestCompletionDate time.Time
}

// elapsedDays measures the calendar-day span between the first and last
// entry date, with a floor of one day so a single-day burst still yields a
// finite productivity.
func elapsedDays(first, last time.Time) float64 {
	days := startOfDay(last).Sub(startOfDay(first)).Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}

// ForecastActivity classifies one activity and projects its completion.
//
// An activity with no Actual entries has not started: no productivity and no
// completion date. Once remaining units reach zero the activity is completed,
// a terminal state excluded from every future period's forecast. In between,
// productivity is actual units over the elapsed actual-day span, falling back
// to planned productivity (planned units over the planned entry span) when
// the actual rate is unusable, and the completion date is today plus the
// remaining working days at that rate.
func ForecastActivity(a Activity, kpis []KPI, project Project, now time.Time, isWorkingDay WorkingDayPredicate, m Matcher) ActivityForecast {
	fullCode := project.FullCode()
	f := ActivityForecast{Activity: a, RemainingUnits: a.PlannedUnits}

	var firstActual, lastActual time.Time
	var firstPlanned, lastPlanned time.Time
	var plannedQty float64
	for _, k := range kpis {
		if !m.Matches(k, a, fullCode) {
			continue
		}
		d, ok := k.CompareDate()
		if !ok {
			continue
		}
		if k.IsActual() {
			f.ActualUnits += k.Quantity
			if firstActual.IsZero() || d.Before(firstActual) {
				firstActual = d
			}
			if lastActual.IsZero() || d.After(lastActual) {
				lastActual = d
			}
		} else if k.IsPlanned() {
			plannedQty += k.Quantity
			if firstPlanned.IsZero() || d.Before(firstPlanned) {
				firstPlanned = d
			}
			if lastPlanned.IsZero() || d.After(lastPlanned) {
				lastPlanned = d
			}
		}
	}

	f.RemainingUnits = a.PlannedUnits - f.ActualUnits
	f.Started = !firstActual.IsZero()

	if !firstPlanned.IsZero() {
		span := elapsedDays(firstPlanned, lastPlanned)
		units := a.PlannedUnits
		if units <= 0 {
			units = plannedQty
		}
		f.PlannedProductivity = units / span
	}

	if f.Started && f.RemainingUnits <= 0 {
		f.Completed = true
		return f
	}
	if !f.Started {
		return f
	}

	f.ActualProductivity = f.ActualUnits / elapsedDays(firstActual, lastActual)
	f.Productivity = f.ActualProductivity
	if f.Productivity <= 0 {
		f.Productivity = f.PlannedProductivity
	}
	if f.Productivity <= 0 {
		return f // in progress but no usable rate: no completion projection
	}

	remainingDays := int(math.Ceil(f.RemainingUnits / f.Productivity))
	f.CompletionDate = AddWorkingDays(now, remainingDays, isWorkingDay)
	return f
}

// ForecastProject forecasts every activity of a project and rolls up the
// latest completion date over those still carrying remaining work. The
// boolean is false when the project has no non-completed activities: a fully
// completed project conveys no forecast information and is dropped from the
// look-ahead report.
func ForecastProject(p Project, activities []Activity, kpis []KPI, now time.Time, isWorkingDay WorkingDayPredicate) (ProjectForecast, bool) {
	pf := ProjectForecast{Project: p}
	hasOpen := false
	for _, a := range activities {
		f := ForecastActivity(a, kpis, p, now, isWorkingDay, DefaultMatcher)
		pf.Activities = append(pf.Activities, f)
		if f.Completed {
			continue
		}
		hasOpen = true
		if !f.CompletionDate.IsZero() && f.CompletionDate.After(pf.LatestCompletionDate) {
			pf.LatestCompletionDate = f.CompletionDate
		}
	}
	return pf, hasOpen
}

// ForecastValue projects the monetary value one activity contributes to a
// future period: its productivity over the period's working days, capped at
// the remaining units, at the resolved rate. Completed and not-started
// activities contribute nothing.
func ForecastValue(f ActivityForecast, period Period, isWorkingDay WorkingDayPredicate) float64 {
	if f.Completed || f.Productivity <= 0 || f.RemainingUnits <= 0 {
		return 0
	}
	end := period.End
	if !f.CompletionDate.IsZero() && f.CompletionDate.Before(end) {
		end = endOfDay(f.CompletionDate)
	}
	if end.Before(period.Start) {
		return 0
	}
	days := CountWorkingDays(period.Start, end, isWorkingDay)
	qty := f.Productivity * float64(days)
	if qty > f.RemainingUnits {
		qty = f.RemainingUnits
	}
	return qty * ResolveRate(f.Activity)
}

// ForecastSeries sums ForecastValue over a project's activities for each
// future period, index-aligned with the period list.
func ForecastSeries(pf ProjectForecast, periods []Period, isWorkingDay WorkingDayPredicate) []float64 {
	values := make([]float64, len(periods))
	for i, p := range periods {
		var sum float64
		for _, f := range pf.Activities {
			sum += ForecastValue(f, p, isWorkingDay)
		}
		values[i] = sum
	}
	return values
}
