package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/santralytics/santralytics/core/metrics"
)

// PromSink records run events in Prometheus metrics.
type PromSink struct {
	fetches       *prometheus.CounterVec
	fetchSeconds  *prometheus.HistogramVec
	fetchPoints   *prometheus.CounterVec
	auths         *prometheus.CounterVec
	reports       *prometheus.CounterVec
	reportSeconds prometheus.Histogram
}

// NewPromSink registers the run metrics on the default Prometheus
// registerer. The scrape server is started separately via StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epias_fetch_total",
		Help: "Total number of transparency platform requests",
	}, []string{"endpoint", "status"})
	fetchSeconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epias_fetch_duration_seconds",
		Help:    "Time spent fetching one series",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	fetchPoints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epias_fetch_points_total",
		Help: "Data points returned by the transparency platform",
	}, []string{"endpoint"})
	auths := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "epias_auth_total",
		Help: "Total number of CAS ticket acquisitions",
	}, []string{"cached", "status"})
	reports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_runs_total",
		Help: "Total number of report generation runs",
	}, []string{"status"})
	reportSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "report_duration_seconds",
		Help:    "End to end duration of a report generation run",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	if err := reg.Register(fetches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fetchSeconds); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetchSeconds = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fetchPoints); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetchPoints = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(auths); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			auths = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(reports); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reports = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(reportSeconds); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reportSeconds = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		fetches:       fetches,
		fetchSeconds:  fetchSeconds,
		fetchPoints:   fetchPoints,
		auths:         auths,
		reports:       reports,
		reportSeconds: reportSeconds,
	}, nil
}

func status(errStr string) string {
	if errStr != "" {
		return "error"
	}
	return "ok"
}

// RecordFetch counts the request and observes its duration.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.fetches.WithLabelValues(ev.Endpoint, status(ev.Error)).Inc()
	s.fetchSeconds.WithLabelValues(ev.Endpoint).Observe(ev.Duration.Seconds())
	if ev.Points > 0 {
		s.fetchPoints.WithLabelValues(ev.Endpoint).Add(float64(ev.Points))
	}
	return nil
}

// RecordAuth counts a ticket acquisition.
func (s *PromSink) RecordAuth(ev coremetrics.AuthEvent) error {
	s.auths.WithLabelValues(strconv.FormatBool(ev.Cached), status(ev.Error)).Inc()
	return nil
}

// RecordReport counts a run and observes its duration.
func (s *PromSink) RecordReport(ev coremetrics.ReportEvent) error {
	s.reports.WithLabelValues(status(ev.Error)).Inc()
	s.reportSeconds.Observe(ev.Duration.Seconds())
	return nil
}
