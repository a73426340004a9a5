package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// The source database populates the same logical field under several names
// and casings ("Activity Name", activity_name, nested raw objects, numbers
// stored as strings with thousands separators). Normalization maps all of
// that onto the canonical structs in model.go. Nothing here returns an
// error: every accessor has a zero default and bad rows simply contribute
// nothing downstream.

// ExtractString returns the first non-empty string found under any of the
// candidate keys, consulting a nested "raw" object when the top level misses.
func ExtractString(row map[string]any, keys ...string) string {
	if row == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := row[key]; ok {
			if s := strings.TrimSpace(cast.ToString(v)); s != "" {
				return s
			}
		}
	}
	if raw, ok := row["raw"].(map[string]any); ok {
		return ExtractString(raw, keys...)
	}
	return ""
}

// ExtractNumeric returns the first parseable number found under any of the
// candidate keys. String values have thousands-separator commas stripped
// before parsing. Missing or unparseable fields yield 0.
func ExtractNumeric(row map[string]any, keys ...string) float64 {
	if row == nil {
		return 0
	}
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr {
			s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
			continue
		}
		if f := cast.ToFloat64(v); f != 0 {
			return f
		}
		// A genuine zero still counts as found.
		switch v.(type) {
		case float64, float32, int, int64, int32:
			return 0
		}
	}
	if raw, ok := row["raw"].(map[string]any); ok {
		return ExtractNumeric(raw, keys...)
	}
	return 0
}

// ExtractBool is tolerant of "true"/"TRUE"/"1"/"yes" style flags.
func ExtractBool(row map[string]any, keys ...string) bool {
	if row == nil {
		return false
	}
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			if s == "true" || s == "1" || s == "yes" {
				return true
			}
			if s == "false" || s == "0" || s == "no" || s == "" {
				continue
			}
		default:
			if cast.ToBool(v) {
				return true
			}
		}
	}
	if raw, ok := row["raw"].(map[string]any); ok {
		return ExtractBool(raw, keys...)
	}
	return false
}

// dateLayouts covers the formats observed across the source tables. Order
// matters: the most specific layouts come first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05.999Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01-02-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses a raw date string against the known layouts. Layouts
// without zone information resolve in local time so a date-only record lands
// inside the local-time period covering that calendar day. The boolean is
// false for empty or unparseable input; callers skip such records rather
// than failing the aggregation.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeProject maps a raw row onto a Project.
func NormalizeProject(row map[string]any) Project {
	return Project{
		ID:                   ExtractString(row, "id", "Id", "ID"),
		ProjectCode:          ExtractString(row, "project_code", "Project Code", "projectCode"),
		ProjectSubCode:       ExtractString(row, "project_sub_code", "Project Sub-Code", "Project Sub Code", "projectSubCode"),
		Name:                 ExtractString(row, "name", "project_name", "Project Name"),
		Currency:             ExtractString(row, "currency", "Currency"),
		ContractAmount:       ExtractNumeric(row, "contract_amount", "Contract Amount", "contractAmount"),
		ResponsibleDivision:  ExtractString(row, "responsible_division", "Responsible Division"),
		ProjectStatus:        ExtractString(row, "project_status", "Project Status", "status"),
		VirtualMaterialValue: ExtractString(row, "virtual_material_value", "Virtual Material Value"),
		WorkmanshipOnly:      ExtractBool(row, "workmanship_only", "Workmanship Only"),
	}
}

// NormalizeActivity maps a raw row onto an Activity.
func NormalizeActivity(row map[string]any) Activity {
	return Activity{
		ID:                 ExtractString(row, "id", "Id", "ID"),
		ProjectID:          ExtractString(row, "project", "project_id", "Project ID"),
		ProjectFullCode:    ExtractString(row, "project_full_code", "Project Full Code", "projectFullCode", "project_code", "Project Code"),
		Name:               ExtractString(row, "activity_name", "Activity Name", "activity", "Activity", "name"),
		Zone:               ExtractString(row, "zone_ref", "zone_number", "Zone Ref", "Zone Number", "Zone #", "zone", "Zone"),
		Unit:               ExtractString(row, "unit", "Unit"),
		Rate:               ExtractNumeric(row, "rate", "Rate"),
		TotalUnits:         ExtractNumeric(row, "total_units", "Total Units", "totalUnits"),
		PlannedUnits:       ExtractNumeric(row, "planned_units", "Planned Units", "plannedUnits"),
		TotalValue:         ExtractNumeric(row, "total_value", "Total Value", "totalValue"),
		PlannedValue:       ExtractNumeric(row, "planned_value", "Planned Value"),
		EarnedValue:        ExtractNumeric(row, "earned_value", "Earned Value"),
		UseVirtualMaterial: ExtractBool(row, "use_virtual_material", "Use Virtual Material"),
		Division:           ExtractString(row, "activity_division", "Activity Division", "division"),
		Deadline:           ExtractString(row, "deadline", "Deadline", "planned_completion_date"),
		ProgressPercent:    ExtractNumeric(row, "activity_progress_percentage", "Activity Progress %", "progress"),
		Delayed:            ExtractBool(row, "activity_delayed", "Activity Delayed?", "delayed"),
	}
}

// NormalizeKPI maps a raw row onto a KPI.
func NormalizeKPI(row map[string]any) KPI {
	return KPI{
		ID:              ExtractString(row, "id", "Id", "ID"),
		ProjectFullCode: ExtractString(row, "project_full_code", "Project Full Code", "projectFullCode"),
		ProjectCode:     ExtractString(row, "project_code", "Project Code"),
		ActivityName:    ExtractString(row, "activity_name", "Activity Name", "activity", "Activity"),
		InputType:       ExtractString(row, "input_type", "Input Type", "inputType", "type"),
		Quantity:        ExtractNumeric(row, "quantity", "Quantity", "qty", "Qty"),
		Value:           ExtractNumeric(row, "value", "Value"),
		ActualValue:     ExtractNumeric(row, "actual_value", "Actual Value"),
		PlannedValue:    ExtractNumeric(row, "planned_value", "Planned Value"),
		Zone:            ExtractString(row, "zone", "Zone", "zone_ref", "Zone Ref"),
		TargetDate:      ExtractString(row, "target_date", "Target Date", "targetDate"),
		ActualDate:      ExtractString(row, "actual_date", "Actual Date", "actualDate"),
		ActivityDate:    ExtractString(row, "activity_date", "Activity Date", "Day", "day"),
	}
}
