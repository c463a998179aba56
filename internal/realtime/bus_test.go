package realtime

import (
	"fmt"
	"testing"
)

func TestPublishFansOutToAllConnections(t *testing.T) {
	r := NewRegistry()
	bus := NewBus(r)

	s1 := NewSession("u1")
	s2 := NewSession("u1")
	stranger := NewSession("u2")
	r.Subscribe(s1)
	r.Subscribe(s2)
	r.Subscribe(stranger)

	ev := Event{Type: EventHired, GigID: "g1", GigTitle: "Logo", BidID: "b1", Message: "hired"}
	bus.Publish("u1", ev)

	for _, s := range []*Session{s1, s2} {
		select {
		case got := <-s.Events():
			if got != ev {
				t.Fatalf("delivered %+v, want %+v", got, ev)
			}
		default:
			t.Fatal("session did not receive the event")
		}
	}
	select {
	case got := <-stranger.Events():
		t.Fatalf("event leaked to another user: %+v", got)
	default:
	}
}

func TestPublishPreservesOrderPerConnection(t *testing.T) {
	r := NewRegistry()
	bus := NewBus(r)
	s := NewSession("u1")
	r.Subscribe(s)

	const n = sendBuffer
	for i := 0; i < n; i++ {
		bus.Publish("u1", Event{Type: EventHired, BidID: fmt.Sprintf("b%d", i)})
	}
	for i := 0; i < n; i++ {
		got := <-s.Events()
		if want := fmt.Sprintf("b%d", i); got.BidID != want {
			t.Fatalf("event %d is %s, want %s", i, got.BidID, want)
		}
	}
}

func TestPublishToClosedSessionDropsQuietly(t *testing.T) {
	r := NewRegistry()
	bus := NewBus(r)
	s := NewSession("u1")
	r.Subscribe(s)
	s.Close()

	// must not panic or block
	bus.Publish("u1", Event{Type: EventHired, BidID: "b1"})

	select {
	case got := <-s.Events():
		t.Fatalf("closed session received %+v", got)
	default:
	}
}

func TestPublishToUnknownUserIsNoOp(t *testing.T) {
	bus := NewBus(NewRegistry())
	bus.Publish("nobody", Event{Type: EventHired})
}
