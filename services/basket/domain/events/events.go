// Package events defines the domain event model for the basket context:
// the envelope every event carries, the per-aggregate buffer, and the
// concrete event types raised by the Basket and Coupon aggregates.
//
// Payloads hold only primitives (uuids, strings, decimals) so the package
// stays import-free of the aggregate types and events marshal cleanly to
// JSON for integration publishing.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate kind tags used as the prefix of every EventType.
const (
	KindBasket = "basket"
	KindCoupon = "coupon"
)

// Watermill topics the integration copies of selected domain events are
// published to. Consumers subscribe via EventBus.Subscribe.
const (
	TopicBasketCreated         = "basket.created"
	TopicBasketTotalCalculated = "basket.total_calculated"
	TopicCouponDeactivated     = "coupon.deactivated"
)

// Event is the envelope contract every domain event satisfies. EventType is
// formatted "<AggregateKind>.<EventName>" and is the key of the dispatch
// table, so exact concrete types match and nothing else does.
type Event interface {
	EventID() uuid.UUID
	Version() int
	EventType() string
	AggregateID() uuid.UUID
	AggregateKind() string
	OccurredAt() time.Time
}

// Envelope carries the metadata shared by all events. Concrete events embed
// it and gain the Event interface for free.
type Envelope struct {
	ID          uuid.UUID `json:"event_id"`
	Ver         int       `json:"version"` // schema version, 1 unless bumped
	Type        string    `json:"event_type"`
	Aggregate   uuid.UUID `json:"aggregate_id"`
	Kind        string    `json:"aggregate_kind"`
	OccurredUTC time.Time `json:"occurred_at"`
}

// NewEnvelope stamps a fresh envelope: new event id, version 1, current UTC
// time, and EventType "<kind>.<name>".
func NewEnvelope(kind, name string, aggregateID uuid.UUID) Envelope {
	return Envelope{
		ID:          uuid.New(),
		Ver:         1,
		Type:        kind + "." + name,
		Aggregate:   aggregateID,
		Kind:        kind,
		OccurredUTC: time.Now().UTC(),
	}
}

func (e Envelope) EventID() uuid.UUID     { return e.ID }
func (e Envelope) Version() int           { return e.Ver }
func (e Envelope) EventType() string      { return e.Type }
func (e Envelope) AggregateID() uuid.UUID { return e.Aggregate }
func (e Envelope) AggregateKind() string  { return e.Kind }
func (e Envelope) OccurredAt() time.Time  { return e.OccurredUTC }

// Buffer is the ordered list of not-yet-dispatched events held by one
// aggregate instance. Each aggregate owns exactly one Buffer and nothing
// else ever aliases it; all access goes through Raise and PopAll.
type Buffer struct {
	events []Event
}

// Raise appends e to the buffer. Nil events are ignored.
func (b *Buffer) Raise(e Event) {
	if e == nil {
		return
	}
	b.events = append(b.events, e)
}

// PopAll returns the buffered events in raise order and clears the buffer.
// A second call without intervening raises returns an empty slice, so
// dispatching twice never redelivers.
func (b *Buffer) PopAll() []Event {
	out := b.events
	b.events = nil
	return out
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int { return len(b.events) }
