package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/santralytics/santralytics/core/model"
)

// PlantSummary carries one plant's full analysis over the report range.
type PlantSummary struct {
	Plant  model.Plant
	Range  model.DateRange
	Hours  []HourlyRecord
	Months []MonthlyAggregate
	Total  MonthlyAggregate // whole-range rollup, Month zero
}

// Summarize builds the hourly records and monthly rollups for one plant.
func Summarize(plant model.Plant, rng model.DateRange, set SeriesSet) PlantSummary {
	hours := BuildHourly(rng, set)
	return PlantSummary{
		Plant:  plant,
		Range:  rng,
		Hours:  hours,
		Months: AggregateMonthly(plant, hours),
		Total:  RangeTotal(plant, hours),
	}
}

// ComparisonRow pairs the two plants' aggregates for one month. A side is
// nil when that plant has no grid hours in the month.
type ComparisonRow struct {
	Month time.Time
	Left  *MonthlyAggregate
	Right *MonthlyAggregate
}

// PlantComparison is the joined month-by-month view of two plants.
type PlantComparison struct {
	Range model.DateRange
	Left  PlantSummary
	Right PlantSummary
	Rows  []ComparisonRow
}

// CheckComparable rejects pairs of different plant type. Unit figures of a
// hydro plant against a wind plant do not compare.
func CheckComparable(a, b model.Plant) error {
	if a.Type != b.Type {
		return fmt.Errorf("%w: %s is %s, %s is %s", ErrPlantTypeMismatch, a.Name, a.Type, b.Name, b.Type)
	}
	return nil
}

// Compare aligns two summaries on the union of their months, ascending.
func Compare(left, right PlantSummary) PlantComparison {
	lm := monthIndex(left.Months)
	rm := monthIndex(right.Months)

	keys := make([]int64, 0, len(lm)+len(rm))
	seen := make(map[int64]bool, len(lm)+len(rm))
	for k := range lm {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range rm {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([]ComparisonRow, 0, len(keys))
	for _, k := range keys {
		row := ComparisonRow{Left: lm[k], Right: rm[k]}
		if row.Left != nil {
			row.Month = row.Left.Month
		} else {
			row.Month = row.Right.Month
		}
		rows = append(rows, row)
	}
	return PlantComparison{Range: left.Range, Left: left, Right: right, Rows: rows}
}

func monthIndex(months []MonthlyAggregate) map[int64]*MonthlyAggregate {
	idx := make(map[int64]*MonthlyAggregate, len(months))
	for i := range months {
		idx[months[i].Month.Unix()] = &months[i]
	}
	return idx
}
