package event

import (
	"sync"
	"testing"
)

type pingEvent struct{ N int }
type otherEvent struct{}

func TestBus_DeliversAfterSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(ev pingEvent) { got = append(got, ev.N) })

	Emit(b, pingEvent{N: 1})
	Emit(b, pingEvent{N: 2})

	// Events sit in the back buffer until the next tick's swap.
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("events must not deliver before SwapBuffers, got %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2] in emit order, got %v", got)
	}

	// Dispatched events are consumed by the following swap.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 {
		t.Fatalf("events must not redeliver, got %v", got)
	}
}

func TestBus_TypedRouting(t *testing.T) {
	b := NewBus()
	pings, others := 0, 0
	Subscribe(b, func(pingEvent) { pings++ })
	Subscribe(b, func(otherEvent) { others++ })

	Emit(b, pingEvent{N: 1})
	b.SwapBuffers()
	b.DispatchAll()

	if pings != 1 || others != 0 {
		t.Fatalf("handler routing is per event type, got pings=%d others=%d", pings, others)
	}
}

func TestBus_EmitIsSafeFromGoroutines(t *testing.T) {
	b := NewBus()
	total := 0
	Subscribe(b, func(pingEvent) { total++ })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Emit(b, pingEvent{N: j})
			}
		}()
	}
	wg.Wait()

	b.SwapBuffers()
	b.DispatchAll()
	if total != 800 {
		t.Fatalf("expected 800 deliveries, got %d", total)
	}
}
