package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/santralytics/santralytics/core/model"
)

// topCostDayCount bounds the costliest-day ranking kept per period.
const topCostDayCount = 5

// DayCost is the imbalance cost accumulated over one day.
type DayCost struct {
	Day    time.Time
	CostTL float64
}

// MonthlyAggregate summarizes one plant over one calendar month of the
// report range, or over the whole range when Month is zero. Sums skip nil
// hourly values; pointer KPIs are nil when their denominator is zero.
type MonthlyAggregate struct {
	Month time.Time // first day of the month in the market zone

	GridHours       int // report grid hours falling in the period
	ProductionHours int // hours with realized generation above zero

	GenerationMWh         float64
	ImbalanceVolumeMWh    float64 // signed sum
	AbsImbalanceVolumeMWh float64
	DayAheadRevenueTL     float64
	ImbalanceAmountTL     float64
	NetRevenueTL          float64
	ImbalanceCostTL       float64

	UnitRevenueTL       *float64 // net revenue per MWh generated
	UnitImbalanceCostTL *float64 // cost per MWh of absolute volume
	ForecastAccuracyPct *float64 // 1 - mean |volume| / mean forecast, in percent
	CostAsymmetry       *float64 // shortfall-hour cost over surplus-hour cost
	CapacityFactorPct   *float64 // generation over capacity times grid hours

	TopCostDays     []DayCost // costliest days of the period, highest first
	TopCostTL       float64   // combined cost of TopCostDays
	TopCostSharePct *float64  // TopCostTL share of the period cost

	RevenueSharePct           *float64 // period net revenue share of the range total
	PositiveImbalanceSharePct *float64 // surplus volume share of the range absolute volume
	NegativeImbalanceSharePct *float64 // shortfall volume share of the range absolute volume
	ProductionHourSharePct    *float64 // production hours over period grid hours
	ProductionSharePct        *float64 // period generation share of the range total
}

// AggregateMonthly folds one plant's hourly records into calendar-month
// aggregates, ordered chronologically. The range-relative shares are
// computed once over all records; the imbalance shares are whole-range
// ratios repeated on every row.
func AggregateMonthly(plant model.Plant, records []HourlyRecord) []MonthlyAggregate {
	type bucket struct {
		month time.Time
		recs  []HourlyRecord
	}
	var buckets []*bucket
	byMonth := make(map[int64]*bucket)
	for _, r := range records {
		m := model.MonthOf(r.Hour)
		b, ok := byMonth[m.Unix()]
		if !ok {
			b = &bucket{month: m}
			byMonth[m.Unix()] = b
			buckets = append(buckets, b)
		}
		b.recs = append(b.recs, r)
	}

	total := RangeTotal(plant, records)
	posVol, negVol := volumeSplit(records)

	out := make([]MonthlyAggregate, 0, len(buckets))
	for _, b := range buckets {
		agg := aggregate(b.month, b.recs, plant.CapacityMW)
		if total.NetRevenueTL != 0 {
			agg.RevenueSharePct = ptr(agg.NetRevenueTL / total.NetRevenueTL * 100)
		}
		if total.AbsImbalanceVolumeMWh != 0 {
			agg.PositiveImbalanceSharePct = ptr(posVol / total.AbsImbalanceVolumeMWh * 100)
			agg.NegativeImbalanceSharePct = ptr(negVol / total.AbsImbalanceVolumeMWh * 100)
		}
		if total.GenerationMWh != 0 {
			agg.ProductionSharePct = ptr(agg.GenerationMWh / total.GenerationMWh * 100)
		}
		out = append(out, agg)
	}
	return out
}

// RangeTotal folds all records into a single aggregate spanning the whole
// range. Month stays zero; the month-versus-range shares stay nil.
func RangeTotal(plant model.Plant, records []HourlyRecord) MonthlyAggregate {
	agg := aggregate(time.Time{}, records, plant.CapacityMW)
	if agg.AbsImbalanceVolumeMWh != 0 {
		posVol, negVol := volumeSplit(records)
		agg.PositiveImbalanceSharePct = ptr(posVol / agg.AbsImbalanceVolumeMWh * 100)
		agg.NegativeImbalanceSharePct = ptr(negVol / agg.AbsImbalanceVolumeMWh * 100)
	}
	return agg
}

// aggregate computes the sums and per-period KPIs for one record subset.
func aggregate(month time.Time, records []HourlyRecord, capacityMW float64) MonthlyAggregate {
	agg := MonthlyAggregate{Month: month, GridHours: len(records)}

	var realized, forecast, absVol, cost []float64
	var posCost, negCost float64
	dayCost := make(map[int64]float64)

	for _, r := range records {
		if r.RealizedMWh != nil {
			realized = append(realized, *r.RealizedMWh)
			if *r.RealizedMWh > 0 {
				agg.ProductionHours++
			}
		}
		if r.ForecastMWh != nil {
			forecast = append(forecast, *r.ForecastMWh)
		}
		if r.ImbalanceVolumeMWh != nil {
			agg.ImbalanceVolumeMWh += *r.ImbalanceVolumeMWh
			absVol = append(absVol, math.Abs(*r.ImbalanceVolumeMWh))
		}
		if r.DayAheadRevenueTL != nil {
			agg.DayAheadRevenueTL += *r.DayAheadRevenueTL
		}
		if r.ImbalanceAmountTL != nil {
			agg.ImbalanceAmountTL += *r.ImbalanceAmountTL
		}
		if r.NetRevenueTL != nil {
			agg.NetRevenueTL += *r.NetRevenueTL
		}
		if r.ImbalanceCostTL != nil {
			c := *r.ImbalanceCostTL
			cost = append(cost, c)
			dayCost[model.Day(r.Hour).Unix()] += c
			if r.ImbalanceVolumeMWh != nil {
				// Shortfall hours settle at the positive imbalance price,
				// surplus hours at the negative one.
				if *r.ImbalanceVolumeMWh < 0 {
					posCost += c
				} else {
					negCost += c
				}
			}
		}
	}

	agg.GenerationMWh = floats.Sum(realized)
	agg.AbsImbalanceVolumeMWh = floats.Sum(absVol)
	agg.ImbalanceCostTL = floats.Sum(cost)

	if agg.GenerationMWh != 0 {
		agg.UnitRevenueTL = ptr(agg.NetRevenueTL / agg.GenerationMWh)
	}
	if agg.AbsImbalanceVolumeMWh != 0 {
		agg.UnitImbalanceCostTL = ptr(agg.ImbalanceCostTL / agg.AbsImbalanceVolumeMWh)
	}
	if len(forecast) > 0 && len(absVol) > 0 {
		if meanForecast := stat.Mean(forecast, nil); meanForecast > 0 {
			pct := (1 - stat.Mean(absVol, nil)/meanForecast) * 100
			agg.ForecastAccuracyPct = ptr(clamp(pct, 0, 100))
		}
	}
	if negCost != 0 {
		agg.CostAsymmetry = ptr(posCost / negCost)
	}
	if capacityMW > 0 && agg.GridHours > 0 {
		agg.CapacityFactorPct = ptr(agg.GenerationMWh / (capacityMW * float64(agg.GridHours)) * 100)
	}
	if agg.GridHours > 0 {
		agg.ProductionHourSharePct = ptr(float64(agg.ProductionHours) / float64(agg.GridHours) * 100)
	}

	agg.TopCostDays = topDays(dayCost)
	for _, d := range agg.TopCostDays {
		agg.TopCostTL += d.CostTL
	}
	if agg.ImbalanceCostTL > 0 {
		agg.TopCostSharePct = ptr(agg.TopCostTL / agg.ImbalanceCostTL * 100)
	}
	return agg
}

// volumeSplit sums the surplus volume and the absolute shortfall volume.
func volumeSplit(records []HourlyRecord) (pos, neg float64) {
	for _, r := range records {
		if r.ImbalanceVolumeMWh == nil {
			continue
		}
		switch v := *r.ImbalanceVolumeMWh; {
		case v > 0:
			pos += v
		case v < 0:
			neg -= v
		}
	}
	return pos, neg
}

func topDays(dayCost map[int64]float64) []DayCost {
	days := make([]DayCost, 0, len(dayCost))
	for k, c := range dayCost {
		days = append(days, DayCost{Day: time.Unix(k, 0).In(model.MarketZone), CostTL: c})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].CostTL != days[j].CostTL {
			return days[i].CostTL > days[j].CostTL
		}
		return days[i].Day.Before(days[j].Day)
	})
	if len(days) > topCostDayCount {
		days = days[:topCostDayCount]
	}
	return days
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
