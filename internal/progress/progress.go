// Package progress broadcasts report pipeline updates to interested
// listeners without coupling the pipeline to any particular UI.
package progress

import (
	"fmt"
	"strings"
	"sync"
)

// Stage names a phase of a report run.
type Stage string

const (
	StageAuth    Stage = "auth"
	StageFetch   Stage = "fetch"
	StageCompute Stage = "compute"
	StageExport  Stage = "export"
)

// Event is one progress update. Step and Total describe the position
// within the stage when known; a zero Total means indeterminate.
type Event struct {
	Stage   Stage
	Plant   string
	Step    int
	Total   int
	Message string
}

// String renders the event as a single console line.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString("[" + string(e.Stage) + "]")
	if e.Total > 0 {
		fmt.Fprintf(&b, " %d/%d", e.Step, e.Total)
	}
	if e.Message != "" {
		b.WriteString(" " + e.Message)
	}
	return b.String()
}

// Bus fans events out to subscribers. Delivery is non-blocking; a slow
// listener drops updates instead of stalling the pipeline.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

// NewBus creates an empty Bus.
func NewBus() *Bus { return &Bus{} }

// Publish sends the event to all subscribers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
