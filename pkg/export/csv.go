package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/santralytics/santralytics/core/analysis"
)

// WriteHourlyCSV writes one plant's per-hour detail table to w with the
// workbook's Turkish headers. Missing values stay empty fields.
func WriteHourlyCSV(w io.Writer, hours []analysis.HourlyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeaders); err != nil {
		return err
	}
	for _, r := range hours {
		rec := []string{
			r.Hour.Format("2006-01-02"),
			strconv.Itoa(int(r.Hour.Month())),
			r.Hour.Format("15:04"),
			optStr(r.PTF),
			optStr(r.SMF),
			optStr(r.PositiveImbalancePrice),
			optStr(r.NegativeImbalancePrice),
			optStr(r.ForecastMWh),
			optStr(r.RealizedMWh),
			optStr(r.ImbalanceVolumeMWh),
			optStr(r.DayAheadRevenueTL),
			optStr(r.ImbalanceAmountTL),
			optStr(r.NetRevenueTL),
			optStr(r.ImbalanceCostTL),
			optStr(r.UnitImbalanceCostTL),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optStr(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
