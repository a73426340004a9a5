package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int               `json:"total_rows"`
	ValidRows  int               `json:"valid_rows"`
	ErrorRows  int               `json:"error_rows"`
	Errors     []ValidationError `json:"errors"`
	ParsedKPIs []KPI             `json:"-"`
	FileName   string            `json:"-"`
}

// kpiImportColumns are the recognized upload headers, in template order.
// Header matching is tolerant: case-insensitive, surrounding whitespace and
// a trailing " *" ignored. Unrecognized columns are skipped, not rejected —
// the source exports carry plenty of extra columns.
var kpiImportColumns = []struct {
	Key      string
	Label    string
	Required bool
}{
	{"project_full_code", "Project Full Code", true},
	{"activity_name", "Activity Name", true},
	{"input_type", "Input Type", true},
	{"quantity", "Quantity", true},
	{"value", "Value", false},
	{"actual_value", "Actual Value", false},
	{"planned_value", "Planned Value", false},
	{"zone", "Zone", false},
	{"target_date", "Target Date", false},
	{"actual_date", "Actual Date", false},
	{"activity_date", "Activity Date", false},
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file multipart.File) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToKeys maps uploaded column headers to KPI field keys. Returns
// an ordered list of field keys (empty string per unrecognized column).
func mapHeadersToKeys(headers []string) []string {
	labelToKey := make(map[string]string, len(kpiImportColumns)*2)
	for _, c := range kpiImportColumns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[c.Key] = c.Key
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		mapped[i] = labelToKey[norm]
	}
	return mapped
}

// ValidateKPIFile parses and validates an uploaded KPI file (.csv or .xlsx).
// Rows that validate are normalized into KPI records ready to save; rows
// with errors are reported per field and excluded.
func ValidateKPIFile(file multipart.File, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys := mapHeadersToKeys(headers)

	result := &ValidationResult{
		TotalRows: len(dataRows),
		FileName:  fileName,
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]any)
		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			rowData[key] = value
		}

		rowErrors := validateKPIRow(rowNum, rowData)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		result.ParsedKPIs = append(result.ParsedKPIs, NormalizeKPI(rowData))
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// validateKPIRow checks required fields, the input type enum, numeric
// quantity, and that at least one date column is populated.
func validateKPIRow(rowNum int, data map[string]any) []ValidationError {
	var errs []ValidationError

	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}

	for _, c := range kpiImportColumns {
		if c.Required && str(c.Key) == "" {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   c.Label,
				Message: fmt.Sprintf("%s is required", c.Label),
			})
		}
	}

	if it := str("input_type"); it != "" &&
		!strings.EqualFold(it, InputTypePlanned) && !strings.EqualFold(it, InputTypeActual) {
		errs = append(errs, ValidationError{
			Row:     rowNum,
			Field:   "Input Type",
			Message: `Input Type must be "Planned" or "Actual"`,
		})
	}

	if q := str("quantity"); q != "" {
		cleaned := strings.ReplaceAll(q, ",", "")
		if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   "Quantity",
				Message: fmt.Sprintf("Quantity %q is not a number", q),
			})
		}
	}

	hasDate := false
	for _, key := range []string{"target_date", "actual_date", "activity_date"} {
		if s := str(key); s != "" {
			if _, ok := ParseDate(s); !ok {
				errs = append(errs, ValidationError{
					Row:     rowNum,
					Field:   key,
					Message: fmt.Sprintf("unrecognized date %q", s),
				})
				continue
			}
			hasDate = true
		}
	}
	if !hasDate {
		errs = append(errs, ValidationError{
			Row:     rowNum,
			Field:   "Date",
			Message: "at least one of Target Date, Actual Date or Activity Date is required",
		})
	}

	return errs
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
