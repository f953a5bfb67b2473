package metrics

// Package metrics defines the observability events emitted during a
// report run and the sink interfaces recording them. Sinks like PromSink
// and InfluxSink live in infra/metrics and register themselves with the
// factory; multiple configured sinks are combined with NewMultiSink.
// Fetch events cover transparency-platform requests, auth events the CAS
// ticket handling, and report events the run as a whole.
