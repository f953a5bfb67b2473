package metrics

import (
	"errors"
	"testing"
)

type countSink struct {
	fetch, auth, report int
	fail                bool
}

func (c *countSink) RecordFetch(FetchEvent) error {
	c.fetch++
	if c.fail {
		return errors.New("sink down")
	}
	return nil
}

func (c *countSink) RecordAuth(AuthEvent) error {
	c.auth++
	return nil
}

func (c *countSink) RecordReport(ReportEvent) error {
	c.report++
	return nil
}

type fetchOnlySink struct{ fetch int }

func (f *fetchOnlySink) RecordFetch(FetchEvent) error {
	f.fetch++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &countSink{}
	s2 := &fetchOnlySink{}
	m := NewMultiSink(s1, s2)

	if err := m.RecordFetch(FetchEvent{Endpoint: "mcp"}); err != nil {
		t.Fatalf("record fetch: %v", err)
	}
	if err := m.RecordAuth(AuthEvent{}); err != nil {
		t.Fatalf("record auth: %v", err)
	}
	if err := m.RecordReport(ReportEvent{}); err != nil {
		t.Fatalf("record report: %v", err)
	}
	if s1.fetch != 1 || s1.auth != 1 || s1.report != 1 {
		t.Fatal("events not forwarded to the full sink")
	}
	if s2.fetch != 1 {
		t.Fatal("fetch not forwarded to the fetch-only sink")
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	s1 := &countSink{fail: true}
	s2 := &countSink{}
	m := NewMultiSink(s1, s2)

	if err := m.RecordFetch(FetchEvent{}); err == nil {
		t.Fatal("expected the failing sink's error")
	}
	if s2.fetch != 1 {
		t.Fatal("error must not stop the fan-out")
	}
}
