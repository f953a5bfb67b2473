package metrics

import "time"

// FetchEvent describes one transparency-platform request.
type FetchEvent struct {
	Endpoint string // short endpoint name, e.g. "mcp" or "dpp"
	Plant    string // plant name, empty for market-wide series
	Start    time.Time
	End      time.Time
	Points   int // data points returned
	Duration time.Duration
	Error    string // empty on success
	Time     time.Time
}

// Sink records fetch events. The other recorder interfaces are optional;
// MultiSink forwards each event only to the sinks implementing it.
type Sink interface {
	RecordFetch(ev FetchEvent) error
}

// AuthEvent describes one ticket acquisition against the CAS endpoint.
type AuthEvent struct {
	Cached   bool // ticket served from cache instead of a fresh request
	Duration time.Duration
	Error    string
	Time     time.Time
}

// AuthRecorder is implemented by sinks able to record ticket requests.
type AuthRecorder interface {
	RecordAuth(ev AuthEvent) error
}

// ReportEvent summarizes one report generation run.
type ReportEvent struct {
	RunID    string
	Plants   []string
	Start    time.Time // report range start
	End      time.Time
	Rows     int // hourly records per plant
	Months   int
	Output   string // workbook path
	Duration time.Duration
	Error    string
	Time     time.Time
}

// ReportRecorder is implemented by sinks able to record report runs.
type ReportRecorder interface {
	RecordReport(ev ReportEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) RecordFetch(FetchEvent) error   { return nil }
func (NopSink) RecordAuth(AuthEvent) error     { return nil }
func (NopSink) RecordReport(ReportEvent) error { return nil }
