package model

import "time"

// HourlyPoint is one hour of a market series.
type HourlyPoint struct {
	Time  time.Time
	Value float64
}

// HourlySeries is an hourly market series, sparse and ordered by time.
type HourlySeries []HourlyPoint

// Index returns the series keyed by Unix hour. Duplicate hours keep the
// last value seen, matching the platform's revision semantics.
func (s HourlySeries) Index() map[int64]float64 {
	m := make(map[int64]float64, len(s))
	for _, p := range s {
		m[p.Time.Unix()] = p.Value
	}
	return m
}
