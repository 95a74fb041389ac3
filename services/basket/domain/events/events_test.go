package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewEnvelope(t *testing.T) {
	aggregateID := uuid.New()
	env := NewEnvelope(KindBasket, "ItemAdded", aggregateID)

	if env.EventType() != "basket.ItemAdded" {
		t.Fatalf("expected type basket.ItemAdded, got %s", env.EventType())
	}
	if env.Version() != 1 {
		t.Fatalf("expected version 1, got %d", env.Version())
	}
	if env.AggregateID() != aggregateID {
		t.Fatal("aggregate id not preserved")
	}
	if env.AggregateKind() != KindBasket {
		t.Fatalf("expected kind basket, got %s", env.AggregateKind())
	}
	if env.EventID() == (uuid.UUID{}) {
		t.Fatal("expected generated event id")
	}
	if env.OccurredAt().IsZero() {
		t.Fatal("expected occurred-at timestamp")
	}
}

func TestBuffer(t *testing.T) {
	var b Buffer

	t.Run("pop returns events in raise order and clears", func(t *testing.T) {
		e1 := NewBasketCreated(uuid.New(), uuid.New(), decimal.NewFromInt(18))
		e2 := NewItemsDeleted(uuid.New())
		b.Raise(e1)
		b.Raise(e2)

		out := b.PopAll()
		if len(out) != 2 {
			t.Fatalf("expected 2 events, got %d", len(out))
		}
		if out[0].EventType() != TypeBasketCreated || out[1].EventType() != TypeItemsDeleted {
			t.Fatalf("events out of raise order: %s, %s", out[0].EventType(), out[1].EventType())
		}
		if b.Len() != 0 {
			t.Fatal("buffer not cleared")
		}
	})

	t.Run("second pop is empty", func(t *testing.T) {
		if out := b.PopAll(); len(out) != 0 {
			t.Fatalf("expected no redelivery, got %d events", len(out))
		}
	})

	t.Run("nil events ignored", func(t *testing.T) {
		b.Raise(nil)
		if b.Len() != 0 {
			t.Fatal("nil event must not be buffered")
		}
	})
}

func TestEventJSONRoundTrip(t *testing.T) {
	basketID := uuid.New()
	evt := NewTotalAmountCalculated(basketID, decimal.NewFromInt(590))

	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded TotalAmountCalculated
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.EventType() != TypeTotalAmountCalculated {
		t.Fatalf("expected type %s, got %s", TypeTotalAmountCalculated, decoded.EventType())
	}
	if decoded.AggregateID() != basketID {
		t.Fatal("aggregate id lost in round trip")
	}
	if !decoded.Total.Equal(decimal.NewFromInt(590)) {
		t.Fatalf("expected total 590, got %s", decoded.Total)
	}
}
