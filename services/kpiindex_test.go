package services

import "testing"

func TestKPIIndex_Partition(t *testing.T) {
	kpis := []KPI{
		{ID: "k1", ProjectFullCode: "P4110", InputType: "Actual"},
		{ID: "k2", ProjectFullCode: "p4110", InputType: "planned"}, // casing normalized
		{ID: "k3", ProjectCode: "P4110", InputType: "Actual"},      // bare code only
		{ID: "k4", ProjectFullCode: "P5230", InputType: "Actual"},
		{ID: "k5", InputType: "Actual"}, // no code, unreachable
	}
	ix := NewKPIIndex(kpis)

	if got := len(ix.ForProject("P4110")); got != 3 {
		t.Errorf("ForProject(P4110) = %d records, want 3 (full-code rows plus bare-code fallback)", got)
	}
	if got := len(ix.Actual("P4110")); got != 2 {
		t.Errorf("Actual(P4110) = %d, want 2", got)
	}
	if got := len(ix.Planned("P4110")); got != 1 {
		t.Errorf("Planned(P4110) = %d, want 1", got)
	}
	if got := len(ix.ForProject("P5230")); got != 1 {
		t.Errorf("ForProject(P5230) = %d, want 1", got)
	}
	if got := len(ix.ForProject("P9999")); got != 0 {
		t.Errorf("unknown project = %d records, want 0", got)
	}
}

func TestKPIIndex_SubCodedProjectOverFetches(t *testing.T) {
	// A sub-coded project also pulls bare-code rows; the matcher is the one
	// that rejects cross-scope contributions later.
	kpis := []KPI{
		{ID: "k1", ProjectFullCode: "P4110-P", InputType: "Actual"},
		{ID: "k2", ProjectFullCode: "P4110", InputType: "Actual"},
	}
	ix := NewKPIIndex(kpis)

	if got := len(ix.ForProject("P4110-P")); got != 2 {
		t.Errorf("ForProject(P4110-P) = %d, want 2", got)
	}
	if got := len(ix.ForProject("P4110")); got != 1 {
		t.Errorf("ForProject(P4110) = %d, want 1", got)
	}
}
