package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/santralytics/santralytics/core/analysis"
)

// WriteChartHTML renders an interactive line chart of monthly net
// revenue and imbalance cost for both plants. Months missing for a
// plant show as gaps.
func WriteChartHTML(w io.Writer, cmp *analysis.PlantComparison) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Aylık Net Gelir ve Dengesizlik Maliyeti"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Ay"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "TL"}),
	)

	months := make([]string, 0, len(cmp.Rows))
	revenueL := make([]opts.LineData, 0, len(cmp.Rows))
	costL := make([]opts.LineData, 0, len(cmp.Rows))
	revenueR := make([]opts.LineData, 0, len(cmp.Rows))
	costR := make([]opts.LineData, 0, len(cmp.Rows))
	for _, row := range cmp.Rows {
		months = append(months, row.Month.Format("2006-01"))
		revenueL = append(revenueL, lineValue(row.Left, netRevenue))
		costL = append(costL, lineValue(row.Left, imbalanceCost))
		revenueR = append(revenueR, lineValue(row.Right, netRevenue))
		costR = append(costR, lineValue(row.Right, imbalanceCost))
	}

	line.SetXAxis(months).
		AddSeries(cmp.Left.Plant.Name+" Net Gelir", revenueL).
		AddSeries(cmp.Left.Plant.Name+" Dengesizlik Maliyeti", costL).
		AddSeries(cmp.Right.Plant.Name+" Net Gelir", revenueR).
		AddSeries(cmp.Right.Plant.Name+" Dengesizlik Maliyeti", costR)
	return line.Render(w)
}

func netRevenue(a *analysis.MonthlyAggregate) float64 { return a.NetRevenueTL }

func imbalanceCost(a *analysis.MonthlyAggregate) float64 { return a.ImbalanceCostTL }

func lineValue(a *analysis.MonthlyAggregate, pick func(*analysis.MonthlyAggregate) float64) opts.LineData {
	if a == nil {
		return opts.LineData{}
	}
	return opts.LineData{Value: pick(a)}
}
