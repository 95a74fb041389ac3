package models

import (
	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

// Quantity is the immutable value object pairing an item count with its
// per-product limit and unit price. All money math runs on decimals so
// repeated recomputation never drifts the way float arithmetic would.
type Quantity struct {
	value        int
	limit        int
	pricePerUnit decimal.Decimal
}

// NewQuantity constructs a validated Quantity: value > 0, limit >= value,
// pricePerUnit > 0.
func NewQuantity(value, limit int, pricePerUnit decimal.Decimal) (Quantity, error) {
	if value <= 0 {
		return Quantity{}, basketdomain.Validationf("quantity value must be greater than 0, got %d", value)
	}
	if limit <= 0 {
		return Quantity{}, basketdomain.Validationf("quantity limit must be greater than 0, got %d", limit)
	}
	if limit < value {
		return Quantity{}, basketdomain.Validationf("quantity limit %d must be at least the value %d", limit, value)
	}
	if !pricePerUnit.IsPositive() {
		return Quantity{}, basketdomain.Validationf("price per unit must be greater than 0, got %s", pricePerUnit)
	}
	return Quantity{value: value, limit: limit, pricePerUnit: pricePerUnit}, nil
}

// Value returns the item count.
func (q Quantity) Value() int { return q.value }

// Limit returns the maximum allowed count.
func (q Quantity) Limit() int { return q.limit }

// PricePerUnit returns the unit price.
func (q Quantity) PricePerUnit() decimal.Decimal { return q.pricePerUnit }

// TotalPrice returns value * pricePerUnit.
func (q Quantity) TotalPrice() decimal.Decimal {
	return q.pricePerUnit.Mul(decimal.NewFromInt(int64(q.value)))
}

// WithValue returns a new Quantity with the count replaced, re-running all
// constructor validation. The receiver is never mutated.
func (q Quantity) WithValue(newValue int) (Quantity, error) {
	return NewQuantity(newValue, q.limit, q.pricePerUnit)
}

// WithLimit returns a new Quantity with the limit replaced.
func (q Quantity) WithLimit(newLimit int) (Quantity, error) {
	return NewQuantity(q.value, newLimit, q.pricePerUnit)
}

// WithPrice returns a new Quantity with the unit price replaced.
func (q Quantity) WithPrice(newPricePerUnit decimal.Decimal) (Quantity, error) {
	return NewQuantity(q.value, q.limit, newPricePerUnit)
}

// Equal reports structural equality of all three components.
func (q Quantity) Equal(other Quantity) bool {
	return q.value == other.value &&
		q.limit == other.limit &&
		q.pricePerUnit.Equal(other.pricePerUnit)
}
