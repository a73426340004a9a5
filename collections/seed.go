package collections

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type activityDef struct {
	projectFullCode string
	name            string
	zone            string
	unit            string
	rate            float64
	totalUnits      float64
	plannedUnits    float64
	totalValue      float64
	plannedValue    float64
	useVirtual      bool
	division        string
	deadline        string
}

type kpiDef struct {
	projectFullCode string
	activityName    string
	inputType       string
	quantity        float64
	value           float64
	zone            string
	targetDate      string
	actualDate      string
}

type projectDef struct {
	code            string
	subCode         string
	name            string
	currency        string
	contractAmount  float64
	division        string
	status          string
	virtualMaterial string
	activities      []activityDef
	kpis            []kpiDef
}

// Seed populates demo data on first startup. It is idempotent: if any
// project already exists the whole seed is skipped.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: projects collection not found: %w", err)
	}

	existing, err := app.FindRecordsByFilter(projectsCol, "id != ''", "", 1, 0, nil)
	if err == nil && len(existing) > 0 {
		return nil
	}

	activitiesCol, err := app.FindCollectionByNameOrId("boq_activities")
	if err != nil {
		return fmt.Errorf("seed: boq_activities collection not found: %w", err)
	}
	kpisCol, err := app.FindCollectionByNameOrId("kpi_records")
	if err != nil {
		return fmt.Errorf("seed: kpi_records collection not found: %w", err)
	}

	for _, def := range seedProjects() {
		project := core.NewRecord(projectsCol)
		project.Set("project_code", def.code)
		project.Set("project_sub_code", def.subCode)
		project.Set("name", def.name)
		project.Set("currency", def.currency)
		project.Set("contract_amount", def.contractAmount)
		project.Set("responsible_division", def.division)
		project.Set("project_status", def.status)
		project.Set("virtual_material_value", def.virtualMaterial)
		if err := app.Save(project); err != nil {
			return fmt.Errorf("seed: save project %s: %w", def.code, err)
		}

		for _, ad := range def.activities {
			a := core.NewRecord(activitiesCol)
			a.Set("project", project.Id)
			a.Set("project_full_code", ad.projectFullCode)
			a.Set("activity_name", ad.name)
			a.Set("zone_ref", ad.zone)
			a.Set("unit", ad.unit)
			a.Set("rate", ad.rate)
			a.Set("total_units", ad.totalUnits)
			a.Set("planned_units", ad.plannedUnits)
			a.Set("total_value", ad.totalValue)
			a.Set("planned_value", ad.plannedValue)
			a.Set("use_virtual_material", ad.useVirtual)
			a.Set("activity_division", ad.division)
			a.Set("deadline", ad.deadline)
			if err := app.Save(a); err != nil {
				return fmt.Errorf("seed: save activity %q: %w", ad.name, err)
			}
		}

		for _, kd := range def.kpis {
			k := core.NewRecord(kpisCol)
			k.Set("project_full_code", kd.projectFullCode)
			k.Set("activity_name", kd.activityName)
			k.Set("input_type", kd.inputType)
			k.Set("quantity", kd.quantity)
			k.Set("value", kd.value)
			k.Set("zone", kd.zone)
			k.Set("target_date", kd.targetDate)
			k.Set("actual_date", kd.actualDate)
			if err := app.Save(k); err != nil {
				return fmt.Errorf("seed: save kpi for %q: %w", kd.activityName, err)
			}
		}
	}

	return nil
}

// seedProjects builds the demo portfolio relative to the current date so the
// dashboard shows live-looking periods out of the box.
func seedProjects() []projectDef {
	day := func(offset int) string {
		return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
	}

	return []projectDef{
		{
			code:            "P4110",
			name:            "Marina Towers Substructure",
			currency:        "AED",
			contractAmount:  4800000,
			division:        "Civil, MEP",
			status:          "on-going",
			virtualMaterial: "15%",
			activities: []activityDef{
				{
					projectFullCode: "P4110",
					name:            "Excavation and Backfilling",
					zone:            "Zone 1",
					unit:            "m3",
					totalUnits:      12000,
					plannedUnits:    12000,
					totalValue:      540000,
					division:        "Civil",
					deadline:        day(60),
				},
				{
					projectFullCode: "P4110",
					name:            "Raft Foundation Concrete",
					zone:            "Zone 2",
					unit:            "m3",
					rate:            310,
					totalUnits:      3600,
					plannedUnits:    3600,
					totalValue:      1116000,
					useVirtual:      true,
					division:        "Civil",
					deadline:        day(95),
				},
				{
					projectFullCode: "P4110",
					name:            "Waterproofing Membrane",
					unit:            "m2",
					rate:            42,
					plannedUnits:    8200,
					division:        "Civil",
					deadline:        day(120),
				},
			},
			kpis: []kpiDef{
				{"P4110", "Excavation and Backfilling", "Planned", 400, 0, "Zone 1", day(-20), ""},
				{"P4110", "Excavation and Backfilling", "Planned", 400, 0, "Zone 1", day(-10), ""},
				{"P4110", "Excavation and Backfilling", "Actual", 380, 0, "P4110 - Zone 1", "", day(-18)},
				{"P4110", "Excavation and Backfilling", "Actual", 410, 0, "Zone 1", "", day(-6)},
				{"P4110", "Raft Foundation Concrete", "Planned", 240, 0, "Zone 2", day(-15), ""},
				{"P4110", "Raft Foundation Concrete", "Actual", 180, 0, "Zone 2", "", day(-12)},
				{"P4110", "Raft Foundation Concrete", "Actual", 150, 0, "zone-2", "", day(-3)},
			},
		},
		{
			code:            "P4110",
			subCode:         "P4110-P",
			name:            "Marina Towers Piling Package",
			currency:        "AED",
			contractAmount:  1500000,
			division:        "Civil",
			status:          "on-going",
			virtualMaterial: "0.1",
			activities: []activityDef{
				{
					projectFullCode: "P4110-P",
					name:            "Bored Piles 900mm",
					zone:            "Zone 1",
					unit:            "nos",
					rate:            5200,
					totalUnits:      220,
					plannedUnits:    220,
					totalValue:      1144000,
					division:        "Civil",
					deadline:        day(45),
				},
			},
			kpis: []kpiDef{
				{"P4110-P", "Bored Piles 900mm", "Planned", 20, 0, "Zone 1", day(-25), ""},
				{"P4110-P", "Bored Piles 900mm", "Actual", 18, 0, "Zone 1", "", day(-22)},
				{"P4110-P", "Bored Piles 900mm", "Actual", 24, 0, "Zone 1", "", day(-2)},
			},
		},
		{
			code:           "P5230",
			name:           "Coastal Road Drainage",
			currency:       "AED",
			contractAmount: 2200000,
			division:       "Infrastructure",
			status:         "site-preparation",
			activities: []activityDef{
				{
					projectFullCode: "P5230",
					name:            "Pipe Laying 600mm GRP",
					unit:            "m",
					rate:            480,
					plannedUnits:    4100,
					division:        "Infrastructure",
					deadline:        day(180),
				},
				{
					projectFullCode: "P5230",
					name:            "Manhole Construction",
					zone:            "Zone 3",
					unit:            "nos",
					rate:            6400,
					plannedUnits:    58,
					division:        "Infrastructure",
					deadline:        day(200),
				},
			},
			kpis: []kpiDef{
				// Planned only: the project has not started on site yet.
				{"P5230", "Pipe Laying 600mm GRP", "Planned", 150, 0, "", day(10), ""},
				{"P5230", "Pipe Laying 600mm GRP", "Planned", 150, 0, "", day(20), ""},
				{"P5230", "Manhole Construction", "Planned", 4, 0, "Zone 3", day(15), ""},
			},
		},
	}
}
