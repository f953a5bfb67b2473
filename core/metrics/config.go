package metrics

import "github.com/santralytics/santralytics/core/factory"

// Config selects the sinks a run reports into. ServeAddr optionally
// exposes the Prometheus scrape endpoint for the lifetime of the run.
type Config struct {
	Sinks     []factory.ModuleConfig `json:"sinks"`
	ServeAddr string                 `json:"serve_addr"`
}
