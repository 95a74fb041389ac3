package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/basketctx/services/basket/domain/events"
)

// stubEvent is a minimal event with a settable type.
type stubEvent struct {
	events.Envelope
}

func newStubEvent(eventType string) stubEvent {
	return stubEvent{Envelope: events.Envelope{
		ID:        uuid.New(),
		Ver:       1,
		Type:      eventType,
		Aggregate: uuid.New(),
		Kind:      strings.SplitN(eventType, ".", 2)[0],
	}}
}

// recorder appends every delivered event type to order and returns the
// configured cascade.
type recorder struct {
	order   *[]string
	cascade []events.Event
	err     error
}

func (r *recorder) Handle(_ context.Context, e events.Event) ([]events.Event, error) {
	*r.order = append(*r.order, e.EventType())
	return r.cascade, r.err
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	var order []string
	reg := NewRegistry()
	reg.Register("basket.A", &recorder{order: &order})
	reg.Register("basket.B", &recorder{order: &order})

	d := NewDispatcher(reg)
	err := d.Dispatch(context.Background(), []events.Event{newStubEvent("basket.A"), newStubEvent("basket.B")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "basket.A" || order[1] != "basket.B" {
		t.Fatalf("unexpected delivery order: %v", order)
	}
}

func TestDispatcherCascadesBreadthFirst(t *testing.T) {
	// A handler for E1 raises E3; E2 was seeded alongside E1. Breadth-first
	// means E2 is delivered before the cascaded E3.
	var order []string
	reg := NewRegistry()
	reg.Register("basket.E1", &recorder{order: &order, cascade: []events.Event{newStubEvent("basket.E3")}})
	reg.Register("basket.E2", &recorder{order: &order})
	reg.Register("basket.E3", &recorder{order: &order})

	d := NewDispatcher(reg)
	err := d.Dispatch(context.Background(), []events.Event{newStubEvent("basket.E1"), newStubEvent("basket.E2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"basket.E1", "basket.E2", "basket.E3"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestDispatcherMultipleHandlersPerType(t *testing.T) {
	var order []string
	reg := NewRegistry()
	reg.Register("basket.A", &recorder{order: &order})
	reg.RegisterFunc("basket.A", func(_ context.Context, e events.Event) ([]events.Event, error) {
		order = append(order, e.EventType()+"-second")
		return nil, nil
	})

	d := NewDispatcher(reg)
	if err := d.Dispatch(context.Background(), []events.Event{newStubEvent("basket.A")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "basket.A" || order[1] != "basket.A-second" {
		t.Fatalf("handlers not run in registration order: %v", order)
	}
}

func TestDispatcherUnroutedEventIsANoOp(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	if err := d.Dispatch(context.Background(), []events.Event{newStubEvent("basket.Unknown")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatcherFailFast(t *testing.T) {
	var order []string
	boom := errors.New("handler blew up")
	reg := NewRegistry()
	reg.Register("basket.A", &recorder{order: &order, err: boom})
	reg.Register("basket.B", &recorder{order: &order})

	d := NewDispatcher(reg)
	err := d.Dispatch(context.Background(), []events.Event{newStubEvent("basket.A"), newStubEvent("basket.B")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("expected dispatch to stop after the failing handler, delivered %v", order)
	}
}

func TestDispatcherStepBound(t *testing.T) {
	// A handler that always cascades its own event type loops forever; the
	// step bound must cut it off with an error.
	var order []string
	reg := NewRegistry()
	reg.RegisterFunc("basket.Loop", func(_ context.Context, e events.Event) ([]events.Event, error) {
		order = append(order, e.EventType())
		return []events.Event{newStubEvent("basket.Loop")}, nil
	})

	d := NewDispatcher(reg, WithMaxSteps(8))
	err := d.Dispatch(context.Background(), []events.Event{newStubEvent("basket.Loop")})
	if err == nil {
		t.Fatal("expected step bound error, got nil")
	}
	if len(order) > 8 {
		t.Fatalf("expected at most 8 deliveries, got %d", len(order))
	}
}

func TestDispatcherEmptySeed(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	if err := d.Dispatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
