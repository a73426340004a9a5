package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateFinancialExcel serializes a financial report into an xlsx
// workbook: one row per project, one column pair (earned/planned) per
// period, a virtual-material column when any project carries an uplift, and
// a Grand Total row equal to the sum over periods.
func GenerateFinancialExcel(report FinancialReport, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Financial Report"
	}
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create data style: %w", err)
	}

	numStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 4, // #,##0.00
	})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Border: thinBorders(),
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// ── Title row ───────────────────────────────────────────────────────

	nPeriods := len(report.Periods)
	// Columns: project, then earned/planned/virtual per period, then totals.
	lastColIdx := 1 + nPeriods*3 + 3
	lastCol, _ := excelize.ColumnNumberToName(lastColIdx)

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	// ── Header rows (3: period labels, 4: measure labels) ───────────────

	f.SetCellValue(sheetName, "A3", "Project")
	if err := f.MergeCell(sheetName, "A3", "A4"); err != nil {
		return nil, fmt.Errorf("merge project header: %w", err)
	}
	f.SetColWidth(sheetName, "A", "A", 32)

	for i, p := range report.Periods {
		startIdx := 2 + i*3
		start, _ := excelize.ColumnNumberToName(startIdx)
		end, _ := excelize.ColumnNumberToName(startIdx + 2)
		if err := f.MergeCell(sheetName, start+"3", end+"3"); err != nil {
			return nil, fmt.Errorf("merge period header: %w", err)
		}
		f.SetCellValue(sheetName, start+"3", p.Label)
		f.SetCellValue(sheetName, start+"4", "Earned")
		mid, _ := excelize.ColumnNumberToName(startIdx + 1)
		f.SetCellValue(sheetName, mid+"4", "Planned")
		f.SetCellValue(sheetName, end+"4", "Virtual")
		f.SetColWidth(sheetName, start, end, 14)
	}

	totalsStart := 2 + nPeriods*3
	for j, label := range []string{"Total Earned", "Total Planned", "Total Virtual"} {
		col, _ := excelize.ColumnNumberToName(totalsStart + j)
		f.SetCellValue(sheetName, col+"3", label)
		if err := f.MergeCell(sheetName, col+"3", col+"4"); err != nil {
			return nil, fmt.Errorf("merge totals header: %w", err)
		}
		f.SetColWidth(sheetName, col, col, 16)
	}
	f.SetCellStyle(sheetName, "A3", lastCol+"4", headerStyle)

	// ── Data rows ───────────────────────────────────────────────────────

	row := 5
	for _, r := range report.Rows {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.ProjectName+" ("+r.ProjectFullCode+")"))
		f.SetCellStyle(sheetName, "A"+rowStr, "A"+rowStr, dataStyle)

		for i := 0; i < nPeriods; i++ {
			c0, _ := excelize.ColumnNumberToName(2 + i*3)
			c1, _ := excelize.ColumnNumberToName(2 + i*3 + 1)
			c2, _ := excelize.ColumnNumberToName(2 + i*3 + 2)
			f.SetCellValue(sheetName, c0+rowStr, r.Earned[i])
			f.SetCellValue(sheetName, c1+rowStr, r.Planned[i])
			f.SetCellValue(sheetName, c2+rowStr, r.Virtual[i])
		}
		for j, v := range []float64{r.TotalEarned, r.TotalPlanned, r.TotalVirtual} {
			col, _ := excelize.ColumnNumberToName(totalsStart + j)
			f.SetCellValue(sheetName, col+rowStr, v)
		}
		b, _ := excelize.ColumnNumberToName(2)
		f.SetCellStyle(sheetName, b+rowStr, lastCol+rowStr, numStyle)
		row++
	}

	// ── Grand Total row ─────────────────────────────────────────────────

	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "A"+rowStr, "Grand Total")
	var grandEarned, grandPlanned, grandVirtual float64
	for i := 0; i < nPeriods; i++ {
		c0, _ := excelize.ColumnNumberToName(2 + i*3)
		c1, _ := excelize.ColumnNumberToName(2 + i*3 + 1)
		c2, _ := excelize.ColumnNumberToName(2 + i*3 + 2)
		f.SetCellValue(sheetName, c0+rowStr, report.GrandEarned[i])
		f.SetCellValue(sheetName, c1+rowStr, report.GrandPlanned[i])
		f.SetCellValue(sheetName, c2+rowStr, report.GrandVirtual[i])
		grandEarned += report.GrandEarned[i]
		grandPlanned += report.GrandPlanned[i]
		grandVirtual += report.GrandVirtual[i]
	}
	for j, v := range []float64{grandEarned, grandPlanned, grandVirtual} {
		col, _ := excelize.ColumnNumberToName(totalsStart + j)
		f.SetCellValue(sheetName, col+rowStr, v)
	}
	f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, totalStyle)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
