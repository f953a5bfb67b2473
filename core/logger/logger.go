// Package logger declares the logging contract used across the
// application. Concrete adapters live in infra/logger.
package logger

// Logger exposes leveled logging. Debugw carries structured fields for
// request tracing; the formatted variants cover everything else.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
