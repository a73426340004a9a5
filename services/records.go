package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Collection names owned by this application.
const (
	CollectionProjects   = "projects"
	CollectionActivities = "boq_activities"
	CollectionKPIs       = "kpi_records"
)

// fetchPageSize is the page size used when draining a collection.
const fetchPageSize = 1000

// FetchAllRecords drains a collection page by page until a short page
// signals the end.
func FetchAllRecords(app *pocketbase.PocketBase, collection string) ([]*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("collection %s not found: %w", collection, err)
	}

	var all []*core.Record
	offset := 0
	for {
		page, err := app.FindRecordsByFilter(col, "id != ''", "-created", fetchPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page at offset %d: %w", collection, offset, err)
		}
		all = append(all, page...)
		if len(page) < fetchPageSize {
			return all, nil
		}
		offset += fetchPageSize
	}
}

// ProjectFromRecord maps a projects record onto a Project.
func ProjectFromRecord(r *core.Record) Project {
	return Project{
		ID:                   r.Id,
		ProjectCode:          r.GetString("project_code"),
		ProjectSubCode:       r.GetString("project_sub_code"),
		Name:                 r.GetString("name"),
		Currency:             r.GetString("currency"),
		ContractAmount:       r.GetFloat("contract_amount"),
		ResponsibleDivision:  r.GetString("responsible_division"),
		ProjectStatus:        r.GetString("project_status"),
		VirtualMaterialValue: r.GetString("virtual_material_value"),
		WorkmanshipOnly:      r.GetBool("workmanship_only"),
	}
}

// ActivityFromRecord maps a boq_activities record onto an Activity.
func ActivityFromRecord(r *core.Record) Activity {
	return Activity{
		ID:                 r.Id,
		ProjectID:          r.GetString("project"),
		ProjectFullCode:    r.GetString("project_full_code"),
		Name:               r.GetString("activity_name"),
		Zone:               r.GetString("zone_ref"),
		Unit:               r.GetString("unit"),
		Rate:               r.GetFloat("rate"),
		TotalUnits:         r.GetFloat("total_units"),
		PlannedUnits:       r.GetFloat("planned_units"),
		TotalValue:         r.GetFloat("total_value"),
		PlannedValue:       r.GetFloat("planned_value"),
		EarnedValue:        r.GetFloat("earned_value"),
		UseVirtualMaterial: r.GetBool("use_virtual_material"),
		Division:           r.GetString("activity_division"),
		Deadline:           r.GetString("deadline"),
		ProgressPercent:    r.GetFloat("activity_progress_percentage"),
		Delayed:            r.GetBool("activity_delayed"),
	}
}

// KPIFromRecord maps a kpi_records record onto a KPI.
func KPIFromRecord(r *core.Record) KPI {
	return KPI{
		ID:              r.Id,
		ProjectFullCode: r.GetString("project_full_code"),
		ProjectCode:     r.GetString("project_code"),
		ActivityName:    r.GetString("activity_name"),
		InputType:       r.GetString("input_type"),
		Quantity:        r.GetFloat("quantity"),
		Value:           r.GetFloat("value"),
		ActualValue:     r.GetFloat("actual_value"),
		PlannedValue:    r.GetFloat("planned_value"),
		Zone:            r.GetString("zone"),
		TargetDate:      r.GetString("target_date"),
		ActualDate:      r.GetString("actual_date"),
		ActivityDate:    r.GetString("activity_date"),
	}
}

// LoadSnapshot returns the current report snapshot, serving from the cache
// while fresh. refresh forces a reload. A load failure leaves any previous
// cache entry untouched so a later retry can still hit it.
func LoadSnapshot(app *pocketbase.PocketBase, cache *SnapshotCache, now time.Time, refresh bool) (*ReportSnapshot, error) {
	if !refresh {
		if snap, ok := cache.Get(now); ok {
			return snap, nil
		}
	}

	projectRecs, err := FetchAllRecords(app, CollectionProjects)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	activityRecs, err := FetchAllRecords(app, CollectionActivities)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	kpiRecs, err := FetchAllRecords(app, CollectionKPIs)
	if err != nil {
		return nil, fmt.Errorf("load kpis: %w", err)
	}

	snap := &ReportSnapshot{
		Projects:   make([]Project, 0, len(projectRecs)),
		Activities: make([]Activity, 0, len(activityRecs)),
		KPIs:       make([]KPI, 0, len(kpiRecs)),
		FetchedAt:  now,
	}
	for _, r := range projectRecs {
		snap.Projects = append(snap.Projects, ProjectFromRecord(r))
	}
	for _, r := range activityRecs {
		snap.Activities = append(snap.Activities, ActivityFromRecord(r))
	}
	for _, r := range kpiRecs {
		snap.KPIs = append(snap.KPIs, KPIFromRecord(r))
	}
	snap.Analytics = ComputeAllAnalytics(snap.Projects, snap.Activities, snap.KPIs, now)

	cache.Put(snap)
	return snap, nil
}
