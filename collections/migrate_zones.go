package collections

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
)

// MigrateZonePrefixes strips redundant project-code prefixes from stored
// zone descriptors ("P4110 - Zone 2" -> "Zone 2"). Early imports carried the
// prefix inconsistently, which forced every matcher call to re-normalize;
// repairing the stored values keeps the data readable in the admin UI.
// Safe to call on every startup -- rows without a prefix are untouched.
func MigrateZonePrefixes(app *pocketbase.PocketBase) error {
	activitiesCol, err := app.FindCollectionByNameOrId("boq_activities")
	if err != nil {
		return fmt.Errorf("migrate: could not find boq_activities collection: %w", err)
	}

	activities, err := app.FindRecordsByFilter(activitiesCol, "zone_ref != ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate: could not query activities: %w", err)
	}

	migrated := 0
	for _, a := range activities {
		code := projectCodeFor(a.GetString("project_full_code"))
		if code == "" {
			continue
		}
		zone := a.GetString("zone_ref")
		stripped := stripZonePrefix(zone, code)
		if stripped == zone {
			continue
		}
		a.Set("zone_ref", stripped)
		if err := app.Save(a); err != nil {
			log.Printf("migrate: failed to update zone on activity %s: %v\n", a.Id, err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: stripped project-code prefix from %d zone descriptor(s).\n", migrated)
	}
	return nil
}

// projectCodeFor returns the bare code portion of a full code.
func projectCodeFor(fullCode string) string {
	fullCode = strings.TrimSpace(fullCode)
	if i := strings.Index(fullCode, "-"); i > 0 {
		return fullCode[:i]
	}
	return fullCode
}

// stripZonePrefix removes a leading "{CODE} - ", "{CODE}-" or "{CODE} "
// label, case-insensitively, preserving the original casing of the rest.
func stripZonePrefix(zone, code string) string {
	trimmed := strings.TrimSpace(zone)
	if len(trimmed) <= len(code) || !strings.EqualFold(trimmed[:len(code)], code) {
		return zone
	}
	rest := trimmed[len(code):]
	for _, sep := range []string{" - ", "-", " "} {
		if strings.HasPrefix(rest, sep) {
			return strings.TrimSpace(rest[len(sep):])
		}
	}
	return zone
}
