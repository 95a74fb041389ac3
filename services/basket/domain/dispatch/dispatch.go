// Package dispatch delivers an aggregate's buffered domain events to their
// registered handlers, including chain reactions: a handler may mutate an
// aggregate and raise new events, which are delivered in the same call.
package dispatch

import (
	"context"
	"fmt"

	"github.com/ghuser/basketctx/services/basket/domain/events"
)

// defaultMaxSteps bounds one dispatch call. There is no cycle detection; a
// handler pair that keeps feeding each other events would otherwise loop
// forever.
const defaultMaxSteps = 1024

// Handler consumes one domain event. Any events the handler caused to be
// buffered on an aggregate must be popped and returned so the dispatcher can
// deliver them too; return nil when nothing new was raised.
type Handler interface {
	Handle(ctx context.Context, e events.Event) ([]events.Event, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, e events.Event) ([]events.Event, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, e events.Event) ([]events.Event, error) {
	return f(ctx, e)
}

// Registry is the static dispatch table mapping each concrete EventType
// string to its ordered handler list. Populate it once at composition time;
// it is read-only during Dispatch and matches exact event types only; a
// handler registered for basket.ItemAdded never sees basket.ItemDeleted.
type Registry struct {
	handlers map[string][]Handler
}

// NewRegistry returns an empty dispatch table.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]Handler)}
}

// Register appends h to the handler list for eventType. Registration order
// is invocation order.
func (r *Registry) Register(eventType string, h Handler) {
	r.handlers[eventType] = append(r.handlers[eventType], h)
}

// RegisterFunc is Register for bare functions.
func (r *Registry) RegisterFunc(eventType string, f HandlerFunc) {
	r.Register(eventType, f)
}

// HandlersFor returns the ordered handlers registered for eventType.
func (r *Registry) HandlersFor(eventType string) []Handler {
	return r.handlers[eventType]
}

// Dispatcher drains a queue of domain events breadth-first. It is stateless
// between calls and safe to share across requests as long as the Registry is
// not mutated concurrently.
type Dispatcher struct {
	registry *Registry
	maxSteps int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxSteps overrides the hard bound on events processed per dispatch.
func WithMaxSteps(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxSteps = n
		}
	}
}

// NewDispatcher builds a Dispatcher over the given registry.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: registry, maxSteps: defaultMaxSteps}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers seed and every cascaded event in FIFO order. The caller
// must have popped seed from the aggregate's buffer already, so a repeat
// call with an empty buffer is a no-op and never redelivers.
//
// For each event the registered handlers run sequentially, each awaited to
// completion. Events a handler raises are appended to the tail of the queue
// after all handlers for the current event have run, giving stable
// breadth-first ordering.
//
// The first handler error aborts the remaining dispatch. Already-delivered
// events are neither retried nor rolled back: the aggregate's primary state
// was committed before dispatch began, so a partial failure only leaves
// downstream reactions incomplete.
func (d *Dispatcher) Dispatch(ctx context.Context, seed []events.Event) error {
	queue := make([]events.Event, len(seed))
	copy(queue, seed)

	steps := 0
	for len(queue) > 0 {
		if steps++; steps > d.maxSteps {
			return fmt.Errorf("dispatch aborted after %d events: cascade exceeds step bound", d.maxSteps)
		}

		event := queue[0]
		queue = queue[1:]

		var cascaded []events.Event
		for _, h := range d.registry.HandlersFor(event.EventType()) {
			raised, err := h.Handle(ctx, event)
			if err != nil {
				return fmt.Errorf("dispatch %s: %w", event.EventType(), err)
			}
			cascaded = append(cascaded, raised...)
		}
		queue = append(queue, cascaded...)
	}
	return nil
}
