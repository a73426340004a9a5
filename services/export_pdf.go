package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateAnalyticsPDF renders the portfolio summary — one row per project
// with contract, earned, planned, variance and progress — using maroto/v2.
func GenerateAnalyticsPDF(title, generatedOn string, analytics []ProjectAnalytics) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addSummaryHeader(m, title, generatedOn)
	addSummaryTable(m, analytics)
	addSummaryTotals(m, analytics)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate analytics PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addSummaryHeader(m core.Maroto, title, generatedOn string) {
	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(
				text.New(title, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(4).Add(
				text.New("Generated: "+generatedOn, props.Text{
					Size:  8,
					Align: align.Right,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)
	m.AddRows(row.New(3))
}

func addSummaryTable(m core.Maroto, analytics []ProjectAnalytics) {
	headerStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerRight := headerStyle
	headerRight.Align = align.Right
	headerBg := &props.Color{Red: 51, Green: 51, Blue: 51}

	m.AddRows(
		row.New(7).WithStyle(&props.Cell{BackgroundColor: headerBg}).Add(
			col.New(3).Add(text.New("Project", headerStyle)),
			col.New(1).Add(text.New("Status", headerStyle)),
			col.New(2).Add(text.New("Contract Value", headerRight)),
			col.New(2).Add(text.New("Earned Value", headerRight)),
			col.New(2).Add(text.New("Planned Value", headerRight)),
			col.New(1).Add(text.New("Variance", headerRight)),
			col.New(1).Add(text.New("Progress", headerRight)),
		),
	)

	cell := props.Text{Size: 8, Align: align.Left}
	cellRight := props.Text{Size: 8, Align: align.Right}
	altBg := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}

	for i, a := range analytics {
		r := row.New(6)
		if i%2 == 1 {
			r = r.WithStyle(altBg)
		}
		r.Add(
			col.New(3).Add(text.New(fmt.Sprintf("%s (%s)", a.ProjectName, a.ProjectFullCode), cell)),
			col.New(1).Add(text.New(a.ProjectStatus, cell)),
			col.New(2).Add(text.New(FormatCurrency(a.TotalContractValue, a.Currency), cellRight)),
			col.New(2).Add(text.New(FormatCurrency(a.TotalEarnedValue, a.Currency), cellRight)),
			col.New(2).Add(text.New(FormatCurrency(a.TotalPlannedValue, a.Currency), cellRight)),
			col.New(1).Add(text.New(FormatCurrency(a.Variance, ""), cellRight)),
			col.New(1).Add(text.New(FormatPercent(a.ActualProgress), cellRight)),
		)
		m.AddRows(r)
	}
}

func addSummaryTotals(m core.Maroto, analytics []ProjectAnalytics) {
	var contract, earned, planned float64
	for _, a := range analytics {
		contract += a.TotalContractValue
		earned += a.TotalEarnedValue
		planned += a.TotalPlannedValue
	}

	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	value := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(row.New(3))
	m.AddRows(
		row.New(7).Add(
			col.New(4).Add(text.New("Portfolio Total", label)),
			col.New(2).Add(text.New(FormatCurrency(contract, ""), value)),
			col.New(2).Add(text.New(FormatCurrency(earned, ""), value)),
			col.New(2).Add(text.New(FormatCurrency(planned, ""), value)),
			col.New(2).Add(text.New(FormatCurrency(earned-planned, ""), value)),
		),
	)
}
