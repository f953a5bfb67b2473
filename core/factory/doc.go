// Package factory instantiates pluggable modules from configuration. A
// module is declared by a type name plus a map of raw settings; the
// factory registered under that name decodes the settings into its own
// config struct and returns the concrete implementation. Metric sinks
// are wired this way so a report run can ship its counters to any
// combination of backends picked in the config file.
package factory
