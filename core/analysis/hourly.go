package analysis

import (
	"math"
	"time"

	"github.com/santralytics/santralytics/core/model"
)

// Margins applied to the reference prices by the balancing settlement
// rules: surplus energy is bought back below market, shortfall energy is
// charged above market.
const (
	negativePriceMargin = 0.97
	positivePriceMargin = 1.03
)

// HourlyRecord is one settled hour of a plant: market prices, production
// and the derived imbalance economics. Pointer fields are nil when the
// upstream series had no value for the hour; nil propagates through every
// derivation and is never coerced to zero.
type HourlyRecord struct {
	Hour time.Time

	PTF *float64 // day-ahead clearing price, TL/MWh
	SMF *float64 // system marginal price, TL/MWh

	PositiveImbalancePrice *float64 // max(PTF, SMF) * 1.03, charged on shortfall
	NegativeImbalancePrice *float64 // min(PTF, SMF) * 0.97, paid on surplus

	ForecastMWh *float64 // finalized day-ahead production program (KGÜP)
	RealizedMWh *float64 // realized generation

	ImbalanceVolumeMWh  *float64 // realized - forecast, signed
	DayAheadRevenueTL   *float64 // forecast * PTF
	ImbalanceAmountTL   *float64 // volume priced under the sign rule
	NetRevenueTL        *float64 // day-ahead revenue + imbalance amount
	ImbalanceCostTL     *float64 // max(0, -imbalance amount)
	UnitImbalanceCostTL *float64 // cost per MWh of absolute volume, nil at zero volume
}

// SeriesSet carries the four market series feeding one plant's hourly
// table. PTF and SMF are plant independent and shared between plants.
type SeriesSet struct {
	PTF      model.HourlySeries
	SMF      model.HourlySeries
	Forecast model.HourlySeries
	Realized model.HourlySeries
}

// BuildHourly joins the four series over the full hour grid of the range
// and derives the imbalance economics for every hour. Hours absent from a
// series produce records with nil fields; no hour of the range is ever
// dropped, and an entirely empty series does not abort the build.
func BuildHourly(rng model.DateRange, set SeriesSet) []HourlyRecord {
	ptf := set.PTF.Index()
	smf := set.SMF.Index()
	forecast := set.Forecast.Index()
	realized := set.Realized.Index()

	hours := rng.Hours()
	records := make([]HourlyRecord, 0, len(hours))
	for _, h := range hours {
		rec := HourlyRecord{Hour: h}
		key := h.Unix()
		if v, ok := ptf[key]; ok {
			rec.PTF = ptr(v)
		}
		if v, ok := smf[key]; ok {
			rec.SMF = ptr(v)
		}
		if v, ok := forecast[key]; ok {
			rec.ForecastMWh = ptr(v)
		}
		if v, ok := realized[key]; ok {
			rec.RealizedMWh = ptr(v)
		}
		derive(&rec)
		records = append(records, rec)
	}
	return records
}

// derive fills the computed fields of rec from its source fields. Each
// derivation requires all of its inputs; otherwise the field stays nil.
func derive(rec *HourlyRecord) {
	if rec.PTF != nil && rec.SMF != nil {
		rec.PositiveImbalancePrice = ptr(math.Max(*rec.PTF, *rec.SMF) * positivePriceMargin)
		rec.NegativeImbalancePrice = ptr(math.Min(*rec.PTF, *rec.SMF) * negativePriceMargin)
	}
	if rec.ForecastMWh != nil && rec.RealizedMWh != nil {
		rec.ImbalanceVolumeMWh = ptr(*rec.RealizedMWh - *rec.ForecastMWh)
	}
	if rec.ForecastMWh != nil && rec.PTF != nil {
		rec.DayAheadRevenueTL = ptr(*rec.ForecastMWh * *rec.PTF)
	}
	if v := rec.ImbalanceVolumeMWh; v != nil {
		// Sign rule: surplus settles at the negative imbalance price,
		// shortfall at the positive one.
		switch {
		case *v >= 0 && rec.NegativeImbalancePrice != nil:
			rec.ImbalanceAmountTL = ptr(*v * *rec.NegativeImbalancePrice)
		case *v < 0 && rec.PositiveImbalancePrice != nil:
			rec.ImbalanceAmountTL = ptr(*v * *rec.PositiveImbalancePrice)
		}
	}
	if rec.DayAheadRevenueTL != nil && rec.ImbalanceAmountTL != nil {
		rec.NetRevenueTL = ptr(*rec.DayAheadRevenueTL + *rec.ImbalanceAmountTL)
	}
	if rec.ImbalanceAmountTL != nil {
		rec.ImbalanceCostTL = ptr(math.Max(0, -*rec.ImbalanceAmountTL))
	}
	if rec.ImbalanceCostTL != nil && rec.ImbalanceVolumeMWh != nil && *rec.ImbalanceVolumeMWh != 0 {
		rec.UnitImbalanceCostTL = ptr(*rec.ImbalanceCostTL / math.Abs(*rec.ImbalanceVolumeMWh))
	}
}

func ptr(v float64) *float64 { return &v }
