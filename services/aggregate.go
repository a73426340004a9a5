package services

import (
	"strings"
	"time"
)

// AggregateOptions controls a single aggregation pass.
//
// ClampToToday caps the effective period end at Now: Actual-type aggregation
// sets it because future actuals cannot exist, while Planned-type aggregation
// leaves it off since planned work may legitimately lie in the future. The
// clamp is an explicit parameter, not inferred from the input type, so the
// asymmetry stays a visible part of the contract.
type AggregateOptions struct {
	ClampToToday bool
	Now          time.Time
	Matcher      Matcher
}

// DefaultAggregateOptions returns the options used by the report views for
// the given input type.
func DefaultAggregateOptions(inputType string, now time.Time) AggregateOptions {
	return AggregateOptions{
		ClampToToday: strings.EqualFold(inputType, InputTypeActual),
		Now:          now,
		Matcher:      DefaultMatcher,
	}
}

// kpiContribution resolves the monetary value of one matched KPI:
//
//  1. quantity × resolved rate, when both are positive;
//  2. the record's direct value field — unless it numerically equals the
//     quantity, which signals the field was mis-populated with the quantity
//     and must be disregarded;
//  3. the type-specific actual_value / planned_value field.
//
// A record yielding 0 under all three simply contributes nothing.
func kpiContribution(k KPI, a Activity) float64 {
	if rate := ResolveRate(a); k.Quantity > 0 && rate > 0 {
		return k.Quantity * rate
	}
	if k.Value != 0 && k.Value != k.Quantity {
		return k.Value
	}
	if k.IsActual() {
		return k.ActualValue
	}
	return k.PlannedValue
}

// AggregateValue sums the monetary value of all KPIs of the requested input
// type that match one of the project's activities and fall inside the
// period. Records with no parseable date are skipped. No currency conversion
// happens here; the caller is responsible for currency consistency.
func AggregateValue(kpis []KPI, activities []Activity, project Project, period Period, inputType string, opts AggregateOptions) float64 {
	base, _ := AggregateWithVirtual(kpis, activities, project, period, inputType, opts)
	return base
}

// AggregateWithVirtual is AggregateValue plus the virtual-material uplift
// attributed per matched activity: contributions landing on an activity
// flagged for virtual material additionally accrue the project's percentage
// uplift. The uplift is returned separately — it layers on top of the base,
// never replaces it.
func AggregateWithVirtual(kpis []KPI, activities []Activity, project Project, period Period, inputType string, opts AggregateOptions) (base, virtual float64) {
	end := period.End
	if opts.ClampToToday && !opts.Now.IsZero() {
		if today := endOfDay(opts.Now); today.Before(end) {
			end = today
		}
	}
	if end.Before(period.Start) {
		return 0, 0
	}

	for _, k := range kpis {
		if !strings.EqualFold(strings.TrimSpace(k.InputType), strings.TrimSpace(inputType)) {
			continue
		}
		d, ok := k.CompareDate()
		if !ok || d.Before(period.Start) || d.After(end) {
			continue
		}
		a, ok := opts.Matcher.MatchActivity(k, activities, project)
		if !ok {
			continue
		}
		v := kpiContribution(k, a)
		base += v
		virtual += VirtualMaterialAmount(v, a, project)
	}
	return base, virtual
}

// AggregateSeries evaluates AggregateValue for every period, returning a
// slice aligned by index with the period list — the shape chart and table
// renderers consume.
func AggregateSeries(kpis []KPI, activities []Activity, project Project, periods []Period, inputType string, opts AggregateOptions) []float64 {
	values := make([]float64, len(periods))
	for i, p := range periods {
		values[i] = AggregateValue(kpis, activities, project, p, inputType, opts)
	}
	return values
}

// allTimePeriod covers every representable date, for the "across all time"
// totals the analytics roll-up needs.
func allTimePeriod() Period {
	return Period{
		Label: "All time",
		Start: time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(2200, 12, 31, 23, 59, 59, 999000000, time.Local),
	}
}
