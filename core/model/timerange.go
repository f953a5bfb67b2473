package model

import (
	"fmt"
	"time"
)

// MarketZone is the fixed UTC+3 zone used by the transparency platform.
// Türkiye stopped observing DST in 2016, so a fixed offset is exact.
var MarketZone = time.FixedZone("UTC+3", 3*60*60)

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD day in the market zone.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, MarketZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t, nil
}

// Day truncates t to midnight in the market zone.
func Day(t time.Time) time.Time {
	t = t.In(MarketZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, MarketZone)
}

// MonthOf truncates t to the first day of its month in the market zone.
func MonthOf(t time.Time) time.Time {
	t = t.In(MarketZone)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, MarketZone)
}

// DateRange is an inclusive range of whole days in the market zone.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two YYYY-MM-DD day strings.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := ParseDay(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return DateRange{}, err
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks that the range is well formed.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if Day(r.End).Before(Day(r.Start)) {
		return fmt.Errorf("end date %s before start date %s",
			r.End.Format(dayLayout), r.Start.Format(dayLayout))
	}
	return nil
}

// Hours returns every hour of the range, from 00:00 on the first day
// through 23:00 on the last, in the market zone.
func (r DateRange) Hours() []time.Time {
	start := Day(r.Start)
	end := Day(r.End).AddDate(0, 0, 1)
	hours := make([]time.Time, 0, int(end.Sub(start)/time.Hour))
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		hours = append(hours, t)
	}
	return hours
}

// MonthChunks splits the range on calendar month boundaries. Edge chunks
// are clipped to the range, so chunks cover exactly the original days.
func (r DateRange) MonthChunks() []DateRange {
	start := Day(r.Start)
	end := Day(r.End)
	var chunks []DateRange
	for cur := start; !cur.After(end); {
		monthEnd := MonthOf(cur).AddDate(0, 1, -1)
		if monthEnd.After(end) {
			monthEnd = end
		}
		chunks = append(chunks, DateRange{Start: cur, End: monthEnd})
		cur = monthEnd.AddDate(0, 0, 1)
	}
	return chunks
}
