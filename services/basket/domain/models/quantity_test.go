package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

func TestNewQuantity(t *testing.T) {
	price := decimal.NewFromInt(10)

	tests := []struct {
		name    string
		value   int
		limit   int
		price   decimal.Decimal
		wantErr bool
	}{
		{name: "valid quantity", value: 2, limit: 5, price: price},
		{name: "value equal to limit", value: 5, limit: 5, price: price},
		{name: "zero value rejected", value: 0, limit: 5, price: price, wantErr: true},
		{name: "negative value rejected", value: -1, limit: 5, price: price, wantErr: true},
		{name: "zero limit rejected", value: 1, limit: 0, price: price, wantErr: true},
		{name: "value above limit rejected", value: 6, limit: 5, price: price, wantErr: true},
		{name: "zero price rejected", value: 1, limit: 5, price: decimal.Zero, wantErr: true},
		{name: "negative price rejected", value: 1, limit: 5, price: decimal.NewFromInt(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuantity(tt.value, tt.limit, tt.price)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, basketdomain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Value() != tt.value {
				t.Fatalf("expected value %d, got %d", tt.value, q.Value())
			}
		})
	}
}

func TestQuantityTotalPrice(t *testing.T) {
	q, err := NewQuantity(3, 10, decimal.NewFromFloat(24.90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromFloat(74.70)
	if !q.TotalPrice().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, q.TotalPrice())
	}
}

func TestQuantityWith(t *testing.T) {
	q, err := NewQuantity(2, 5, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("WithValue returns new quantity and keeps original", func(t *testing.T) {
		q2, err := q.WithValue(4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q2.Value() != 4 {
			t.Fatalf("expected value 4, got %d", q2.Value())
		}
		if q.Value() != 2 {
			t.Fatalf("original mutated: expected 2, got %d", q.Value())
		}
	})

	t.Run("WithValue above limit fails", func(t *testing.T) {
		if _, err := q.WithValue(6); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("WithLimit below value fails", func(t *testing.T) {
		if _, err := q.WithLimit(1); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("WithPrice changes the unit price", func(t *testing.T) {
		q2, err := q.WithPrice(decimal.NewFromInt(20))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !q2.TotalPrice().Equal(decimal.NewFromInt(40)) {
			t.Fatalf("expected total 40, got %s", q2.TotalPrice())
		}
	})
}
