package services

import (
	"fmt"
	"time"
)

// Granularity selects the width of report periods.
type Granularity string

const (
	Daily     Granularity = "daily"
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

// startOfDay returns t at 00:00:00.000 local time.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns t at 23:59:59.999 local time.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// startOfWeek aligns to the Monday of t's ISO week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return startOfDay(t.AddDate(0, 0, -offset))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfQuarter(t time.Time) time.Time {
	qMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), qMonth, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// periodFrom builds the period whose first day contains t, aligned per the
// granularity.
func periodFrom(g Granularity, t time.Time) Period {
	switch g {
	case Daily:
		s := startOfDay(t)
		return Period{Label: s.Format("02 Jan"), Start: s, End: endOfDay(s)}
	case Weekly:
		s := startOfWeek(t)
		e := s.AddDate(0, 0, 6)
		return Period{
			Label: s.Format("02 Jan") + " - " + e.Format("02 Jan"),
			Start: s,
			End:   endOfDay(e),
		}
	case Monthly:
		s := startOfMonth(t)
		e := s.AddDate(0, 1, -1) // last day of the month
		return Period{Label: s.Format("Jan 2006"), Start: s, End: endOfDay(e)}
	case Quarterly:
		s := startOfQuarter(t)
		e := s.AddDate(0, 3, -1)
		q := (int(s.Month())-1)/3 + 1
		return Period{
			Label: fmt.Sprintf("Q%d %d", q, s.Year()),
			Start: s,
			End:   endOfDay(e),
		}
	case Yearly:
		s := startOfYear(t)
		e := s.AddDate(1, 0, -1)
		return Period{Label: s.Format("2006"), Start: s, End: endOfDay(e)}
	}
	s := startOfDay(t)
	return Period{Label: s.Format("02 Jan 2006"), Start: s, End: endOfDay(s)}
}

// next returns the first instant after the period of the same granularity.
func next(g Granularity, p Period) time.Time {
	switch g {
	case Daily:
		return p.Start.AddDate(0, 0, 1)
	case Weekly:
		return p.Start.AddDate(0, 0, 7)
	case Monthly:
		return p.Start.AddDate(0, 1, 0)
	case Quarterly:
		return p.Start.AddDate(0, 3, 0)
	case Yearly:
		return p.Start.AddDate(1, 0, 0)
	}
	return p.Start.AddDate(0, 0, 1)
}

// BuildPeriods partitions [start, end] into aligned periods of the given
// granularity. The first period is aligned backwards to its natural boundary
// (Monday, first of month, quarter start, Jan 1) and the last period extends
// past end to its own natural boundary: a weekly range ending mid-week still
// produces a full week as its final bucket.
func BuildPeriods(g Granularity, start, end time.Time) []Period {
	if end.Before(start) {
		return nil
	}
	var periods []Period
	p := periodFrom(g, start)
	for !p.Start.After(end) {
		periods = append(periods, p)
		p = periodFrom(g, next(g, p))
	}
	return periods
}

// trailingWindow is the default span used when the caller supplies no date
// range, sized per granularity and ending now.
func trailingWindow(g Granularity, now time.Time) (time.Time, time.Time) {
	switch g {
	case Daily:
		return now.AddDate(0, 0, -29), now
	case Weekly:
		return now.AddDate(0, 0, -7*3), now
	case Monthly:
		return now.AddDate(0, -5, 0), now
	case Quarterly:
		return now.AddDate(0, -9, 0), now
	case Yearly:
		return now.AddDate(-1, 0, 0), now
	}
	return now.AddDate(0, 0, -29), now
}

// TrailingPeriods returns the default report window for a granularity when
// no explicit range was chosen: 30 days, 4 weeks, 6 months, 4 quarters or
// 2 years, ending now.
func TrailingPeriods(g Granularity, now time.Time) []Period {
	start, end := trailingWindow(g, now)
	return BuildPeriods(g, start, end)
}

// LookAheadPeriods subdivides a forward-looking range with an inferred
// granularity: daily up to 30 days, weekly up to 90, monthly beyond.
func LookAheadPeriods(start, end time.Time) []Period {
	if end.Before(start) {
		return nil
	}
	days := int(endOfDay(end).Sub(startOfDay(start)).Hours() / 24)
	switch {
	case days <= 30:
		return BuildPeriods(Daily, start, end)
	case days <= 90:
		return BuildPeriods(Weekly, start, end)
	default:
		return BuildPeriods(Monthly, start, end)
	}
}
