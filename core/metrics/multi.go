package metrics

// MultiSink fans events out to several sinks. The optional recorder
// interfaces reach only the sinks implementing them; the first error
// wins but every sink still sees the event.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordFetch(ev FetchEvent) error {
	var firstErr error
	for _, s := range m.Sinks {
		if err := s.RecordFetch(ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *MultiSink) RecordAuth(ev AuthEvent) error {
	var firstErr error
	for _, s := range m.Sinks {
		r, ok := s.(AuthRecorder)
		if !ok {
			continue
		}
		if err := r.RecordAuth(ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *MultiSink) RecordReport(ev ReportEvent) error {
	var firstErr error
	for _, s := range m.Sinks {
		r, ok := s.(ReportRecorder)
		if !ok {
			continue
		}
		if err := r.RecordReport(ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
