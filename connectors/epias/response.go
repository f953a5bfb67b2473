package epias

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/santralytics/santralytics/core/model"
)

// seriesRequest is the shared POST body of the series endpoints. The
// optional fields are filled per endpoint; zero values are omitted.
type seriesRequest struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Region         string `json:"region,omitempty"`
	OrganizationID int64  `json:"organizationId,omitempty"`
	UEVCBID        int64  `json:"uevcbId,omitempty"`
	PowerPlantID   int64  `json:"powerPlantId,omitempty"`
}

const stampLayout = "2006-01-02T15:04:05-07:00"

// stamp renders a request timestamp at day granularity in the market
// zone, the format the platform expects. The end day is inclusive.
func stamp(t time.Time) string {
	return t.In(model.MarketZone).Format(stampLayout)
}

// parseStamp reads a platform timestamp and pins it to the market zone.
// Response items do not go through it directly; itemStamp wraps it and
// lets an explicit hour field override the clock parsed here.
func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.In(model.MarketZone), nil
}

// itemStamp resolves an item timestamp. The platform is inconsistent
// about where the clock lives: some endpoints carry it in the date
// field, others emit a day-granular date plus a separate hour or time
// string. A leading "HH:MM" in the hour string wins and is joined to
// the date's day in the market zone; otherwise the date's own clock
// stands, which leaves day-granular dates at midnight.
func itemStamp(date, hour string) (time.Time, error) {
	t, err := parseStamp(date)
	if err != nil {
		return time.Time{}, err
	}
	if len(hour) >= 5 {
		if hm, err := time.Parse("15:04", hour[:5]); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), hm.Hour(), hm.Minute(), 0, 0, model.MarketZone), nil
		}
	}
	return t, nil
}

type mcpResponse struct {
	Items []struct {
		Date  string  `json:"date"`
		Hour  string  `json:"hour"`
		Price float64 `json:"price"`
	} `json:"items"`
}

type smpResponse struct {
	Items []struct {
		Date                string  `json:"date"`
		Hour                string  `json:"hour"`
		SystemMarginalPrice float64 `json:"systemMarginalPrice"`
	} `json:"items"`
}

type dppResponse struct {
	Items []struct {
		Date string `json:"date"`
		Time string `json:"time"`
		// Toplam is the hourly total of the final production plan.
		Toplam float64 `json:"toplam"`
	} `json:"items"`
}

type realtimeResponse struct {
	Items []struct {
		Date  string  `json:"date"`
		Hour  string  `json:"hour"`
		Total float64 `json:"total"`
	} `json:"items"`
}

func decodeMCP(data []byte) (model.HourlySeries, error) {
	var r mcpResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	s := make(model.HourlySeries, 0, len(r.Items))
	for _, it := range r.Items {
		ts, err := itemStamp(it.Date, it.Hour)
		if err != nil {
			return nil, err
		}
		s = append(s, model.HourlyPoint{Time: ts, Value: it.Price})
	}
	return s, nil
}

func decodeSMP(data []byte) (model.HourlySeries, error) {
	var r smpResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	s := make(model.HourlySeries, 0, len(r.Items))
	for _, it := range r.Items {
		ts, err := itemStamp(it.Date, it.Hour)
		if err != nil {
			return nil, err
		}
		s = append(s, model.HourlyPoint{Time: ts, Value: it.SystemMarginalPrice})
	}
	return s, nil
}

func decodeDPP(data []byte) (model.HourlySeries, error) {
	var r dppResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	s := make(model.HourlySeries, 0, len(r.Items))
	for _, it := range r.Items {
		ts, err := itemStamp(it.Date, it.Time)
		if err != nil {
			return nil, err
		}
		s = append(s, model.HourlyPoint{Time: ts, Value: it.Toplam})
	}
	return s, nil
}

func decodeRealtime(data []byte) (model.HourlySeries, error) {
	var r realtimeResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	s := make(model.HourlySeries, 0, len(r.Items))
	for _, it := range r.Items {
		ts, err := itemStamp(it.Date, it.Hour)
		if err != nil {
			return nil, err
		}
		s = append(s, model.HourlyPoint{Time: ts, Value: it.Total})
	}
	return s, nil
}
