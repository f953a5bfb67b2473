package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santralytics/santralytics/core/analysis"
	"github.com/santralytics/santralytics/core/model"
)

// RunScenario feeds the fixture series through the analysis pipeline and
// checks every expected figure.
func RunScenario(t *testing.T, sc *Scenario) {
	plant := sc.Plant.ToModel()
	if sc.OtherPlant != nil {
		err := analysis.CheckComparable(plant, sc.OtherPlant.ToModel())
		if sc.Expected.Error != "" {
			require.ErrorContains(t, err, sc.Expected.Error)
			return
		}
		require.NoError(t, err)
	}

	rng, err := model.NewDateRange(sc.Range.Start, sc.Range.End)
	require.NoError(t, err)
	set, err := sc.SeriesSet()
	require.NoError(t, err)

	summary := analysis.Summarize(plant, rng, set)
	if sc.Expected.GridHours > 0 {
		require.Len(t, summary.Hours, sc.Expected.GridHours)
	}

	byHour := make(map[string]analysis.HourlyRecord, len(summary.Hours))
	for _, rec := range summary.Hours {
		byHour[rec.Hour.Format(hourLayout)] = rec
	}
	for _, exp := range sc.Expected.Hours {
		rec, ok := byHour[exp.Time]
		require.Truef(t, ok, "hour %s not in grid", exp.Time)
		checkFields(t, "hour "+exp.Time, exp.Values, exp.Nil, func(name string) (*float64, bool) {
			return hourField(rec, name)
		})
	}

	byMonth := make(map[string]analysis.MonthlyAggregate, len(summary.Months))
	for _, m := range summary.Months {
		byMonth[m.Month.Format("2006-01")] = m
	}
	for _, exp := range sc.Expected.Months {
		agg := summary.Total
		if exp.Month != "total" {
			var ok bool
			agg, ok = byMonth[exp.Month]
			require.Truef(t, ok, "month %s not aggregated", exp.Month)
		}
		checkFields(t, "month "+exp.Month, exp.Values, exp.Nil, func(name string) (*float64, bool) {
			return monthField(agg, name)
		})
	}
}

// checkFields asserts expected values and expected gaps through a named
// field accessor.
func checkFields(t *testing.T, where string, values map[string]float64, nils []string, get func(string) (*float64, bool)) {
	t.Helper()
	for name, want := range values {
		got, known := get(name)
		require.Truef(t, known, "%s: unknown field %s", where, name)
		if assert.NotNilf(t, got, "%s: %s", where, name) {
			assert.InDeltaf(t, want, *got, 1e-6, "%s: %s", where, name)
		}
	}
	for _, name := range nils {
		got, known := get(name)
		require.Truef(t, known, "%s: unknown field %s", where, name)
		assert.Nilf(t, got, "%s: %s expected unset", where, name)
	}
}

func hourField(rec analysis.HourlyRecord, name string) (*float64, bool) {
	switch name {
	case "ptf":
		return rec.PTF, true
	case "smf":
		return rec.SMF, true
	case "positive_price":
		return rec.PositiveImbalancePrice, true
	case "negative_price":
		return rec.NegativeImbalancePrice, true
	case "forecast":
		return rec.ForecastMWh, true
	case "realized":
		return rec.RealizedMWh, true
	case "volume":
		return rec.ImbalanceVolumeMWh, true
	case "day_ahead_revenue":
		return rec.DayAheadRevenueTL, true
	case "amount":
		return rec.ImbalanceAmountTL, true
	case "net_revenue":
		return rec.NetRevenueTL, true
	case "cost":
		return rec.ImbalanceCostTL, true
	case "unit_cost":
		return rec.UnitImbalanceCostTL, true
	}
	return nil, false
}

func monthField(agg analysis.MonthlyAggregate, name string) (*float64, bool) {
	switch name {
	case "grid_hours":
		return ptrOf(float64(agg.GridHours)), true
	case "production_hours":
		return ptrOf(float64(agg.ProductionHours)), true
	case "generation_mwh":
		return &agg.GenerationMWh, true
	case "imbalance_volume_mwh":
		return &agg.ImbalanceVolumeMWh, true
	case "abs_imbalance_volume_mwh":
		return &agg.AbsImbalanceVolumeMWh, true
	case "day_ahead_revenue_tl":
		return &agg.DayAheadRevenueTL, true
	case "imbalance_amount_tl":
		return &agg.ImbalanceAmountTL, true
	case "net_revenue_tl":
		return &agg.NetRevenueTL, true
	case "imbalance_cost_tl":
		return &agg.ImbalanceCostTL, true
	case "top_cost_tl":
		return &agg.TopCostTL, true
	case "unit_revenue_tl":
		return agg.UnitRevenueTL, true
	case "unit_imbalance_cost_tl":
		return agg.UnitImbalanceCostTL, true
	case "forecast_accuracy_pct":
		return agg.ForecastAccuracyPct, true
	case "cost_asymmetry":
		return agg.CostAsymmetry, true
	case "capacity_factor_pct":
		return agg.CapacityFactorPct, true
	case "top_cost_share_pct":
		return agg.TopCostSharePct, true
	case "revenue_share_pct":
		return agg.RevenueSharePct, true
	case "positive_imbalance_share_pct":
		return agg.PositiveImbalanceSharePct, true
	case "negative_imbalance_share_pct":
		return agg.NegativeImbalanceSharePct, true
	case "production_hour_share_pct":
		return agg.ProductionHourSharePct, true
	case "production_share_pct":
		return agg.ProductionSharePct, true
	}
	return nil, false
}

func ptrOf(v float64) *float64 { return &v }
