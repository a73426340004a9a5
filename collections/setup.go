package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the projects, boq_activities and
// kpi_records collections exist.
//
// Date fields on kpi_records are deliberately plain text: the upstream data
// arrives in several formats and parsing is deferred to the reporting core,
// which skips records whose dates never parse.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "project_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "project_sub_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contract_amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "responsible_division", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:     "project_status",
			Required: false,
			Values: []string{
				"on-going", "upcoming", "site-preparation",
				"completed-duration", "contract-completed",
			},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "virtual_material_value", Required: false})
		c.Fields.Add(&core.BoolField{Name: "workmanship_only"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "boq_activities", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      false,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "project_full_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "activity_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "zone_ref", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_units", Required: false})
		c.Fields.Add(&core.NumberField{Name: "planned_units", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "planned_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "earned_value", Required: false})
		c.Fields.Add(&core.BoolField{Name: "use_virtual_material"})
		c.Fields.Add(&core.TextField{Name: "activity_division", Required: false})
		c.Fields.Add(&core.TextField{Name: "deadline", Required: false})
		c.Fields.Add(&core.NumberField{Name: "activity_progress_percentage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "activity_delayed"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "kpi_records", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "project_full_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "project_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "activity_name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "input_type",
			Required:  true,
			Values:    []string{"Planned", "Actual"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "actual_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "planned_value", Required: false})
		c.Fields.Add(&core.TextField{Name: "zone", Required: false})
		c.Fields.Add(&core.TextField{Name: "target_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "actual_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "activity_date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
