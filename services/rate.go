package services

// ResolveRate computes the monetary rate per unit for an activity.
//
// Total value divided by total units is preferred when both are positive,
// because the totals reflect the most recently recorded state; the stored
// rate field is often stale. The stored rate is the fallback. A result of 0
// means "rate unknown" — callers must not treat it as a free activity.
func ResolveRate(a Activity) float64 {
	if a.TotalValue > 0 && a.TotalUnits > 0 {
		return a.TotalValue / a.TotalUnits
	}
	if a.Rate > 0 {
		return a.Rate
	}
	return 0
}
