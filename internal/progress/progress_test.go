package progress

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Publish(Event{Stage: StageFetch, Plant: "Soma RES", Step: 1, Total: 6})
	e := <-ch
	if e.Stage != StageFetch || e.Step != 1 {
		t.Fatalf("unexpected event %+v", e)
	}
	bus.Unsubscribe(ch)
}

func TestBusSlowListenerDrops(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	for i := 0; i < 20; i++ {
		bus.Publish(Event{Stage: StageFetch, Step: i})
	}
	if got := len(ch); got != 8 {
		t.Fatalf("expected a full buffer of 8, got %d", got)
	}
	bus.Close()
}

func TestBusClose(t *testing.T) {
	bus := NewBus()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	bus.Publish(Event{Stage: StageExport})
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestEventString(t *testing.T) {
	e := Event{Stage: StageFetch, Step: 2, Total: 6, Message: "Soma RES verileri çekiliyor"}
	if got := e.String(); got != "[fetch] 2/6 Soma RES verileri çekiliyor" {
		t.Fatalf("unexpected render %q", got)
	}
	bare := Event{Stage: StageAuth}
	if got := bare.String(); got != "[auth]" {
		t.Fatalf("unexpected render %q", got)
	}
}
