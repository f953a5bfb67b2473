package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/santralytics/santralytics/core/analysis"
)

// pdfColumns are the compact monthly columns of the PDF summary.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Ay", 20},
	{"Üretim (MWh)", 38},
	{"Dengesizlik (MWh)", 38},
	{"GÖP Geliri (TL)", 44},
	{"Net Gelir (TL)", 44},
	{"Deng. Maliyeti (TL)", 44},
	{"Birim DM (TL/MWh)", 38},
}

// WriteSummaryPDF renders a compact monthly summary of both plants. The
// core fonts cover cp1254, which carries the Turkish headers.
func WriteSummaryPDF(w io.Writer, cmp *analysis.PlantComparison) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1254")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Karşılaştırmalı Dengesizlik Analizi"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s - %s",
		cmp.Range.Start.Format("2006-01-02"), cmp.Range.End.Format("2006-01-02")))
	pdf.Ln(10)

	writePlantTable(pdf, tr, cmp.Left)
	writePlantTable(pdf, tr, cmp.Right)
	return pdf.Output(w)
}

func writePlantTable(pdf *gofpdf.Fpdf, tr func(string) string, s analysis.PlantSummary) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%s (%s)", s.Plant.Name, s.Plant.Type)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 6, tr(c.title), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, m := range s.Months {
		writeAggLine(pdf, tr, m.Month.Format("2006-01"), m)
	}
	pdf.SetFont("Arial", "B", 9)
	writeAggLine(pdf, tr, "Toplam", s.Total)
	pdf.Ln(6)
}

func writeAggLine(pdf *gofpdf.Fpdf, tr func(string) string, label string, a analysis.MonthlyAggregate) {
	pdf.CellFormat(pdfColumns[0].width, 6, tr(label), "1", 0, "C", false, 0, "")
	cells := []string{
		fmt.Sprintf("%.2f", a.GenerationMWh),
		fmt.Sprintf("%.2f", a.AbsImbalanceVolumeMWh),
		fmt.Sprintf("%.2f", a.DayAheadRevenueTL),
		fmt.Sprintf("%.2f", a.NetRevenueTL),
		fmt.Sprintf("%.2f", a.ImbalanceCostTL),
		optPDF(a.UnitImbalanceCostTL),
	}
	for i, c := range cells {
		pdf.CellFormat(pdfColumns[i+1].width, 6, c, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)
}

func optPDF(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}
