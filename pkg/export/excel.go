// Package export renders analysis results to the delivery formats:
// Excel workbook, CSV, JSON, PDF summary and an HTML chart.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/santralytics/santralytics/core/analysis"
)

const (
	sheetPlant1     = "Santral_1"
	sheetPlant2     = "Santral_2"
	sheetComparison = "Karşılaştırma"
)

// detailHeaders are the per-hour columns, in workbook order.
var detailHeaders = []string{
	"Tarih", "Ay", "Saat", "PTF", "SMF",
	"Pozitif Dengesizlik Fiyatı", "Negatif Dengesizlik Fiyatı",
	"Gün Öncesi Üretim Tahmini (KGÜP)", "Gerçekleşen Üretim", "Dengesizlik Miktarı",
	"GÖP Geliri", "Dengesizlik Tutarı", "Toplam (Net) Gelir",
	"Dengesizlik Maliyeti", "Birim Dengesizlik Maliyeti",
}

// comparisonHeaders is one plant's column group on the comparison sheet.
// The doubled spaces in the first two are part of the established report
// contract.
var comparisonHeaders = []string{
	"Gerçekleşen Üretim  (MWh)",
	"Dengesizlik Miktarı  (MWh)",
	"GÖP Geliri (TL)",
	"Dengesizlik Tutarı (TL)",
	"Toplam Gelir (TL)",
	"Birim Gelir (TL/MWh)",
	"Dengesizlik Maliyeti (TL)",
	"Birim Deng Mal. (TL/MWh)",
	"Tahmin Doğruluğu (%)",
	"Maliyet Asimetrisi (Poz/Neg)",
	"Kapasite Faktörü (%)",
	"En Maliyetli 5 Gün (TL)",
	"Top 5 Gün DM Payı (%)",
	"Gelir Payı (%)",
	"Yıllık Pozitif Deng. Payı (%)",
	"Yıllık Negatif Deng. Payı (%)",
	"Üretim Saati (saat)",
	"Üretim Saat Payı (%)",
	"Üretim Payı (%)",
}

var comparisonWidths = map[string]float64{
	"Gerçekleşen Üretim  (MWh)":     18,
	"Dengesizlik Miktarı  (MWh)":    18,
	"GÖP Geliri (TL)":               20,
	"Dengesizlik Tutarı (TL)":       20,
	"Toplam Gelir (TL)":             20,
	"Dengesizlik Maliyeti (TL)":     20,
	"En Maliyetli 5 Gün (TL)":       20,
	"Maliyet Asimetrisi (Poz/Neg)":  18,
	"Birim Deng Mal. (TL/MWh)":      18,
	"Yıllık Pozitif Deng. Payı (%)": 18,
	"Yıllık Negatif Deng. Payı (%)": 18,
	"Tahmin Doğruluğu (%)":          14,
	"Kapasite Faktörü (%)":          14,
	"Gelir Payı (%)":                14,
	"Üretim Payı (%)":               14,
}

// WriteWorkbook renders the full report workbook: one detail sheet per
// plant and the side by side monthly comparison.
func WriteWorkbook(w io.Writer, cmp *analysis.PlantComparison) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetPlant1); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetPlant2); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetComparison); err != nil {
		return err
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := writeDetail(f, st, sheetPlant1, cmp.Left.Hours); err != nil {
		return fmt.Errorf("sheet %s: %w", sheetPlant1, err)
	}
	if err := writeDetail(f, st, sheetPlant2, cmp.Right.Hours); err != nil {
		return fmt.Errorf("sheet %s: %w", sheetPlant2, err)
	}
	if err := writeComparison(f, st, cmp); err != nil {
		return fmt.Errorf("sheet %s: %w", sheetComparison, err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	num   int // #,##0.00
	whole int // integer columns
	head  int
	title int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	var err error

	numFmt := "#,##0.00"
	if st.num, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return st, err
	}
	wholeFmt := "0"
	if st.whole, err = f.NewStyle(&excelize.Style{CustomNumFmt: &wholeFmt}); err != nil {
		return st, err
	}
	if st.head, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return st, err
	}
	st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	return st, err
}

func writeDetail(f *excelize.File, st sheetStyles, sheet string, hours []analysis.HourlyRecord) error {
	if err := f.SetSheetRow(sheet, "A1", &detailHeaders); err != nil {
		return err
	}
	for i, r := range hours {
		vals := detailRow(r)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &vals); err != nil {
			return err
		}
	}

	for _, cw := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 19}, {"B", "B", 6}, {"C", "C", 7}, {"D", "O", 16},
	} {
		if err := f.SetColWidth(sheet, cw.from, cw.to, cw.width); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(sheet, "D:O", st.num); err != nil {
		return err
	}
	if len(hours) > 0 {
		if err := f.AddTable(sheet, &excelize.Table{
			Range:     fmt.Sprintf("A1:O%d", len(hours)+1),
			StyleName: "TableStyleLight9",
		}); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func detailRow(r analysis.HourlyRecord) []interface{} {
	return []interface{}{
		r.Hour.Format("2006-01-02"),
		int(r.Hour.Month()),
		r.Hour.Format("15:04"),
		opt(r.PTF),
		opt(r.SMF),
		opt(r.PositiveImbalancePrice),
		opt(r.NegativeImbalancePrice),
		opt(r.ForecastMWh),
		opt(r.RealizedMWh),
		opt(r.ImbalanceVolumeMWh),
		opt(r.DayAheadRevenueTL),
		opt(r.ImbalanceAmountTL),
		opt(r.NetRevenueTL),
		opt(r.ImbalanceCostTL),
		opt(r.UnitImbalanceCostTL),
	}
}

// Comparison sheet geometry: column A holds the month, then one
// 19-column group per plant (B..T and U..AM). Production hours sit at
// group position 17 (columns R and AK).
const (
	compLastCol        = "AM"
	compProdHoursLeft  = "R"
	compProdHoursRight = "AK"
)

func writeComparison(f *excelize.File, st sheetStyles, cmp *analysis.PlantComparison) error {
	sheet := sheetComparison
	nGroup := len(comparisonHeaders)

	if err := f.SetCellValue(sheet, "B1", "Santral 1: "+cmp.Left.Plant.Name); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "B1", "T1"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "U1", "Santral 2: "+cmp.Right.Plant.Name); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "U1", compLastCol+"1"); err != nil {
		return err
	}
	for _, cell := range []string{"B1", "U1"} {
		if err := f.SetCellStyle(sheet, cell, cell, st.title); err != nil {
			return err
		}
	}

	header := make([]interface{}, 0, 1+2*nGroup)
	header = append(header, "Ay")
	for _, h := range comparisonHeaders {
		header = append(header, h)
	}
	for _, h := range comparisonHeaders {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A2", compLastCol+"2", st.head); err != nil {
		return err
	}

	for i, row := range cmp.Rows {
		vals := make([]interface{}, 0, 1+2*nGroup)
		vals = append(vals, row.Month.Format("2006-01"))
		vals = append(vals, aggRow(row.Left)...)
		vals = append(vals, aggRow(row.Right)...)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+3), &vals); err != nil {
			return err
		}
	}

	totalRow := len(cmp.Rows) + 3
	totals := make([]interface{}, 0, 1+2*nGroup)
	totals = append(totals, "Toplam")
	totals = append(totals, aggRow(&cmp.Left.Total)...)
	totals = append(totals, aggRow(&cmp.Right.Total)...)
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", totalRow), &totals); err != nil {
		return err
	}
	totalLabel := fmt.Sprintf("A%d", totalRow)
	if err := f.SetCellStyle(sheet, totalLabel, totalLabel, st.head); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "B3", fmt.Sprintf("%s%d", compLastCol, totalRow), st.num); err != nil {
		return err
	}
	for _, col := range []string{compProdHoursLeft, compProdHoursRight} {
		if err := f.SetCellStyle(sheet, col+"3", fmt.Sprintf("%s%d", col, totalRow), st.whole); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 9); err != nil {
		return err
	}
	for i, h := range comparisonHeaders {
		width, ok := comparisonWidths[h]
		if !ok {
			width = 16
		}
		for _, colNum := range []int{2 + i, 2 + nGroup + i} {
			name, err := excelize.ColumnNumberToName(colNum)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet, name, name, width); err != nil {
				return err
			}
		}
	}
	return nil
}

// aggRow renders one plant's column group. A nil aggregate (month absent
// for that plant) leaves the whole group empty.
func aggRow(a *analysis.MonthlyAggregate) []interface{} {
	vals := make([]interface{}, len(comparisonHeaders))
	if a == nil {
		return vals
	}
	vals[0] = a.GenerationMWh
	vals[1] = a.AbsImbalanceVolumeMWh
	vals[2] = a.DayAheadRevenueTL
	vals[3] = a.ImbalanceAmountTL
	vals[4] = a.NetRevenueTL
	vals[5] = opt(a.UnitRevenueTL)
	vals[6] = a.ImbalanceCostTL
	vals[7] = opt(a.UnitImbalanceCostTL)
	vals[8] = opt(a.ForecastAccuracyPct)
	vals[9] = opt(a.CostAsymmetry)
	vals[10] = opt(a.CapacityFactorPct)
	vals[11] = a.TopCostTL
	vals[12] = opt(a.TopCostSharePct)
	vals[13] = opt(a.RevenueSharePct)
	vals[14] = opt(a.PositiveImbalanceSharePct)
	vals[15] = opt(a.NegativeImbalanceSharePct)
	vals[16] = a.ProductionHours
	vals[17] = opt(a.ProductionHourSharePct)
	vals[18] = opt(a.ProductionSharePct)
	return vals
}

// opt unwraps an optional value; nil stays nil so the cell is skipped.
func opt(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
