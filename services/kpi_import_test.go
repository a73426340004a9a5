package services

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	input := `Project Full Code,Activity Name,Input Type,Quantity,Actual Date
P4110,Excavation,Actual,100,2024-03-15
P4110,Blockwork,Planned,"1,250",2024-04-01`

	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(headers) != 5 {
		t.Errorf("expected 5 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(rows))
	}
	if rows[1][3] != "1,250" {
		t.Errorf("quoted quantity = %q, want '1,250'", rows[1][3])
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("Project Full Code,Activity Name\n")); err == nil {
		t.Error("expected error for file without data rows")
	}
}

func TestParseCSV_RaggedRowsTolerated(t *testing.T) {
	input := "Project Full Code,Activity Name,Quantity\nP4110,Excavation\n"
	_, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ragged row should parse, got %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Errorf("rows = %v", rows)
	}
}

func TestMapHeadersToKeys(t *testing.T) {
	headers := []string{
		"Project Full Code *", // required marker stripped
		"activity name",       // case-insensitive
		"Input Type",
		" Quantity ",   // padding stripped
		"actual_date",  // key form accepted
		"Site Remarks", // unknown, skipped
	}
	got := mapHeadersToKeys(headers)
	want := []string{"project_full_code", "activity_name", "input_type", "quantity", "actual_date", ""}

	if len(got) != len(want) {
		t.Fatalf("mapped %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mapped[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidateKPIRow(t *testing.T) {
	valid := map[string]any{
		"project_full_code": "P4110",
		"activity_name":     "Excavation",
		"input_type":        "Actual",
		"quantity":          "100",
		"actual_date":       "2024-03-15",
	}

	t.Run("valid row", func(t *testing.T) {
		if errs := validateKPIRow(2, valid); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		errs := validateKPIRow(2, map[string]any{"actual_date": "2024-03-15"})
		if len(errs) != 4 {
			t.Errorf("expected 4 required-field errors, got %d: %v", len(errs), errs)
		}
	})

	t.Run("bad input type", func(t *testing.T) {
		row := cloneRow(valid)
		row["input_type"] = "Forecast"
		errs := validateKPIRow(2, row)
		if len(errs) != 1 || errs[0].Field != "Input Type" {
			t.Errorf("expected one input-type error, got %v", errs)
		}
	})

	t.Run("input type any casing", func(t *testing.T) {
		row := cloneRow(valid)
		row["input_type"] = "planned"
		if errs := validateKPIRow(2, row); len(errs) != 0 {
			t.Errorf("lowercase input type should pass, got %v", errs)
		}
	})

	t.Run("non-numeric quantity", func(t *testing.T) {
		row := cloneRow(valid)
		row["quantity"] = "many"
		errs := validateKPIRow(2, row)
		if len(errs) != 1 || errs[0].Field != "Quantity" {
			t.Errorf("expected one quantity error, got %v", errs)
		}
	})

	t.Run("comma quantity accepted", func(t *testing.T) {
		row := cloneRow(valid)
		row["quantity"] = "1,250.5"
		if errs := validateKPIRow(2, row); len(errs) != 0 {
			t.Errorf("comma-separated quantity should pass, got %v", errs)
		}
	})

	t.Run("no date at all", func(t *testing.T) {
		row := cloneRow(valid)
		delete(row, "actual_date")
		errs := validateKPIRow(2, row)
		if len(errs) != 1 || errs[0].Field != "Date" {
			t.Errorf("expected one missing-date error, got %v", errs)
		}
	})

	t.Run("unparseable date", func(t *testing.T) {
		row := cloneRow(valid)
		row["actual_date"] = "soon"
		errs := validateKPIRow(2, row)
		if len(errs) != 2 {
			t.Errorf("expected bad-date plus missing-date errors, got %v", errs)
		}
	})
}

func cloneRow(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestGenerateErrorReport(t *testing.T) {
	errs := []ValidationError{
		{Row: 2, Field: "Quantity", Message: `Quantity "many" is not a number`},
		{Row: 5, Field: "Input Type", Message: `Input Type must be "Planned" or "Actual"`},
	}
	data, err := GenerateErrorReport(errs)
	if err != nil {
		t.Fatalf("GenerateErrorReport failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty xlsx bytes")
	}
}
