package services

import "strings"

// KPIIndex pre-partitions KPI records by project and input type so report
// views do not rescan the full array per project per period. It is a plain
// derived value with no hidden state: callers rebuild it whenever the source
// KPI slice changes, which is the whole invalidation story.
type KPIIndex struct {
	byProject map[string][]KPI
	planned   map[string][]KPI
	actual    map[string][]KPI
}

// NewKPIIndex builds the partition. Each record is keyed under its project
// full code, falling back to the bare project code when the full code is
// missing. Records with neither are unreachable by any matcher stage and are
// dropped here.
func NewKPIIndex(kpis []KPI) *KPIIndex {
	ix := &KPIIndex{
		byProject: make(map[string][]KPI),
		planned:   make(map[string][]KPI),
		actual:    make(map[string][]KPI),
	}
	for _, k := range kpis {
		key := strings.ToLower(strings.TrimSpace(k.ProjectFullCode))
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(k.ProjectCode))
		}
		if key == "" {
			continue
		}
		ix.byProject[key] = append(ix.byProject[key], k)
		if k.IsActual() {
			ix.actual[key] = append(ix.actual[key], k)
		} else if k.IsPlanned() {
			ix.planned[key] = append(ix.planned[key], k)
		}
	}
	return ix
}

// keysFor returns the lookup keys for a project full code: the full code
// itself plus the bare code, since some KPI rows only carry the latter. The
// matcher re-verifies project identity, so over-fetching here is safe.
func keysFor(fullCode string) []string {
	full := strings.ToLower(strings.TrimSpace(fullCode))
	keys := []string{full}
	if bare := strings.ToLower(projectCodeOf(full)); bare != full {
		keys = append(keys, bare)
	}
	return keys
}

// ForProject returns every KPI plausibly belonging to the project.
func (ix *KPIIndex) ForProject(fullCode string) []KPI {
	return ix.collect(ix.byProject, fullCode)
}

// Planned returns the project's Planned-type records.
func (ix *KPIIndex) Planned(fullCode string) []KPI {
	return ix.collect(ix.planned, fullCode)
}

// Actual returns the project's Actual-type records.
func (ix *KPIIndex) Actual(fullCode string) []KPI {
	return ix.collect(ix.actual, fullCode)
}

func (ix *KPIIndex) collect(m map[string][]KPI, fullCode string) []KPI {
	var out []KPI
	for _, key := range keysFor(fullCode) {
		out = append(out, m[key]...)
	}
	return out
}
