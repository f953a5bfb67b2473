package export

import (
	"encoding/json"
	"io"

	"github.com/santralytics/santralytics/core/analysis"
)

type plantSummaryJSON struct {
	Name       string                      `json:"name"`
	Type       string                      `json:"type"`
	CapacityMW float64                     `json:"capacity_mw,omitempty"`
	Months     []analysis.MonthlyAggregate `json:"months"`
	Total      analysis.MonthlyAggregate   `json:"total"`
}

type comparisonJSON struct {
	Start  string             `json:"start"`
	End    string             `json:"end"`
	Plants []plantSummaryJSON `json:"plants"`
}

// WriteSummaryJSON writes both plants' monthly aggregates and range
// totals to w as a machine readable summary.
func WriteSummaryJSON(w io.Writer, cmp *analysis.PlantComparison) error {
	doc := comparisonJSON{
		Start: cmp.Range.Start.Format("2006-01-02"),
		End:   cmp.Range.End.Format("2006-01-02"),
	}
	for _, s := range []analysis.PlantSummary{cmp.Left, cmp.Right} {
		doc.Plants = append(doc.Plants, plantSummaryJSON{
			Name:       s.Plant.Name,
			Type:       s.Plant.Type.String(),
			CapacityMW: s.Plant.CapacityMW,
			Months:     s.Months,
			Total:      s.Total,
		})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}
