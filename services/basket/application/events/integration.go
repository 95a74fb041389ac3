// Package events wires domain events to their application-level reactions:
// publishing integration copies on the watermill bus and the cascading
// reprice reaction.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgevents "github.com/ghuser/basketctx/pkg/events"
	"github.com/ghuser/basketctx/pkg/logger"
	"github.com/ghuser/basketctx/services/basket/domain/dispatch"
	domainevents "github.com/ghuser/basketctx/services/basket/domain/events"
)

// IntegrationPublisher forwards selected domain events to the watermill bus
// so other bounded contexts can react. Publishing happens after the
// aggregate state is committed; a publish failure aborts the rest of the
// dispatch but never rolls the aggregate back.
type IntegrationPublisher struct {
	bus *pkgevents.EventBus
	log logger.Logger
}

// NewIntegrationPublisher returns an IntegrationPublisher over the bus.
func NewIntegrationPublisher(bus *pkgevents.EventBus, log logger.Logger) *IntegrationPublisher {
	return &IntegrationPublisher{bus: bus, log: log}
}

// ForTopic returns a dispatch handler that publishes the event's JSON form
// to the given watermill topic. The handler raises no cascade events.
func (p *IntegrationPublisher) ForTopic(topic string) dispatch.HandlerFunc {
	return func(ctx context.Context, e domainevents.Event) ([]domainevents.Event, error) {
		payload, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.EventType(), err)
		}

		msg := message.NewMessage(e.EventID().String(), payload)
		msg.Metadata.Set("event_type", e.EventType())
		msg.Metadata.Set("aggregate_kind", e.AggregateKind())
		msg.Metadata.Set("aggregate_id", e.AggregateID().String())

		if err := p.bus.Publish(ctx, topic, msg); err != nil {
			return nil, err
		}
		p.log.InfoContext(ctx, "integration event published",
			"topic", topic, "event_type", e.EventType(), "aggregate_id", e.AggregateID())
		return nil, nil
	}
}

// Register wires the published event types into the dispatch table.
func (p *IntegrationPublisher) Register(r *dispatch.Registry) {
	r.RegisterFunc(domainevents.TypeBasketCreated, p.ForTopic(domainevents.TopicBasketCreated))
	r.RegisterFunc(domainevents.TypeTotalAmountCalculated, p.ForTopic(domainevents.TopicBasketTotalCalculated))
	r.RegisterFunc(domainevents.TypeCouponDeactivated, p.ForTopic(domainevents.TopicCouponDeactivated))
}
