package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestBuildPeriods_WeeklyMondayAligned(t *testing.T) {
	// 2024-01-01 is a Monday; range end 01-20 is a Saturday.
	periods := BuildPeriods(Weekly, date(2024, time.January, 1), date(2024, time.January, 20))

	if len(periods) != 3 {
		t.Fatalf("expected 3 weekly periods, got %d", len(periods))
	}
	if !periods[0].Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("first period start = %v, want 2024-01-01", periods[0].Start)
	}
	if periods[0].End.Day() != 7 {
		t.Errorf("first period end day = %d, want 7", periods[0].End.Day())
	}
	// The final bucket extends to its own week boundary past the range end.
	last := periods[len(periods)-1]
	if !last.Start.Equal(date(2024, time.January, 15)) {
		t.Errorf("last period start = %v, want 2024-01-15", last.Start)
	}
	if last.End.Day() != 21 {
		t.Errorf("last period end day = %d, want 21", last.End.Day())
	}
}

func TestBuildPeriods_WeeklyMidWeekStart(t *testing.T) {
	// 2024-01-03 is a Wednesday: the first period aligns back to Monday 01-01.
	periods := BuildPeriods(Weekly, date(2024, time.January, 3), date(2024, time.January, 3))
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if !periods[0].Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("period start = %v, want Monday 2024-01-01", periods[0].Start)
	}
}

func TestBuildPeriods_WeeklySundayTreatedAsWeekEnd(t *testing.T) {
	// 2024-01-07 is a Sunday and belongs to the week starting Monday 01-01.
	periods := BuildPeriods(Weekly, date(2024, time.January, 7), date(2024, time.January, 7))
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if !periods[0].Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("period start = %v, want Monday 2024-01-01", periods[0].Start)
	}
}

func TestBuildPeriods_MonthlyBoundaries(t *testing.T) {
	periods := BuildPeriods(Monthly, date(2024, time.January, 15), date(2024, time.March, 2))

	if len(periods) != 3 {
		t.Fatalf("expected 3 monthly periods, got %d", len(periods))
	}
	if !periods[0].Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("first period start = %v, want first of month", periods[0].Start)
	}
	// February 2024 is a leap month.
	if periods[1].End.Day() != 29 {
		t.Errorf("february end day = %d, want 29", periods[1].End.Day())
	}
	if periods[0].Label != "Jan 2024" {
		t.Errorf("label = %q, want 'Jan 2024'", periods[0].Label)
	}
}

func TestBuildPeriods_QuarterlyAlignment(t *testing.T) {
	periods := BuildPeriods(Quarterly, date(2024, time.May, 10), date(2024, time.May, 10))
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if !periods[0].Start.Equal(date(2024, time.April, 1)) {
		t.Errorf("quarter start = %v, want 2024-04-01", periods[0].Start)
	}
	if periods[0].Label != "Q2 2024" {
		t.Errorf("label = %q, want 'Q2 2024'", periods[0].Label)
	}
}

func TestBuildPeriods_YearlyAlignment(t *testing.T) {
	periods := BuildPeriods(Yearly, date(2023, time.June, 10), date(2024, time.February, 1))
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if !periods[0].Start.Equal(date(2023, time.January, 1)) {
		t.Errorf("year start = %v, want 2023-01-01", periods[0].Start)
	}
}

func TestBuildPeriods_DayBoundaryTimes(t *testing.T) {
	periods := BuildPeriods(Daily, date(2024, time.March, 5), date(2024, time.March, 5))
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	p := periods[0]
	if p.Start.Hour() != 0 || p.Start.Minute() != 0 || p.Start.Second() != 0 || p.Start.Nanosecond() != 0 {
		t.Errorf("start not at 00:00:00.000: %v", p.Start)
	}
	if p.End.Hour() != 23 || p.End.Minute() != 59 || p.End.Second() != 59 || p.End.Nanosecond() != 999000000 {
		t.Errorf("end not at 23:59:59.999: %v", p.End)
	}
}

func TestBuildPeriods_InvertedRange(t *testing.T) {
	periods := BuildPeriods(Daily, date(2024, time.March, 5), date(2024, time.March, 1))
	if periods != nil {
		t.Errorf("expected nil for inverted range, got %d periods", len(periods))
	}
}

func TestTrailingPeriods_Defaults(t *testing.T) {
	now := date(2024, time.June, 15)
	tests := []struct {
		granularity Granularity
		minCount    int
	}{
		{Daily, 30},
		{Weekly, 4},
		{Monthly, 6},
		{Quarterly, 4},
		{Yearly, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			periods := TrailingPeriods(tt.granularity, now)
			if len(periods) < tt.minCount {
				t.Errorf("got %d periods, want at least %d", len(periods), tt.minCount)
			}
			last := periods[len(periods)-1]
			if !last.Contains(now) {
				t.Errorf("last period [%v, %v] does not contain now", last.Start, last.End)
			}
		})
	}
}

func TestLookAheadPeriods_GranularityInference(t *testing.T) {
	start := date(2024, time.January, 1)
	tests := []struct {
		name string
		end  time.Time
		want Granularity
	}{
		{"short horizon is daily", date(2024, time.January, 20), Daily},
		{"medium horizon is weekly", date(2024, time.March, 1), Weekly},
		{"long horizon is monthly", date(2024, time.August, 1), Monthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods := LookAheadPeriods(start, tt.end)
			if len(periods) == 0 {
				t.Fatal("expected periods")
			}
			width := periods[0].End.Sub(periods[0].Start)
			switch tt.want {
			case Daily:
				if width > 24*time.Hour {
					t.Errorf("expected daily buckets, first width %v", width)
				}
			case Weekly:
				if width < 6*24*time.Hour || width > 7*24*time.Hour {
					t.Errorf("expected weekly buckets, first width %v", width)
				}
			case Monthly:
				if width < 27*24*time.Hour {
					t.Errorf("expected monthly buckets, first width %v", width)
				}
			}
		})
	}
}

func TestPeriodContains(t *testing.T) {
	p := periodFrom(Daily, date(2024, time.March, 5))
	if !p.Contains(p.Start) {
		t.Error("start boundary should be inclusive")
	}
	if !p.Contains(p.End) {
		t.Error("end boundary should be inclusive")
	}
	if p.Contains(p.End.Add(time.Millisecond)) {
		t.Error("instant past end should be excluded")
	}
}
