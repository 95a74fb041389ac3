package models

import (
	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

// AmountKind distinguishes a fixed discount from a percentage one.
type AmountKind string

const (
	// AmountFix is an absolute discount deducted from the total.
	AmountFix AmountKind = "fix"
	// AmountPercentage is a relative discount. How its value is scaled
	// (0–1 fraction vs 0–100 percent) is decided by the discount
	// collaborator's configured PercentConvention, not here.
	AmountPercentage AmountKind = "percentage"
)

// Amount is the immutable value object behind a coupon's discount.
type Amount struct {
	value decimal.Decimal
	kind  AmountKind
}

// FixAmount builds a fixed Amount. The value must be greater than 0.
func FixAmount(value decimal.Decimal) (Amount, error) {
	return newAmount(value, AmountFix)
}

// PercentageAmount builds a percentage Amount. The value must be greater than 0.
func PercentageAmount(value decimal.Decimal) (Amount, error) {
	return newAmount(value, AmountPercentage)
}

func newAmount(value decimal.Decimal, kind AmountKind) (Amount, error) {
	if !value.IsPositive() {
		return Amount{}, basketdomain.Validationf("amount value must be greater than 0, got %s", value)
	}
	return Amount{value: value, kind: kind}, nil
}

// Value returns the raw discount value.
func (a Amount) Value() decimal.Decimal { return a.value }

// Kind returns whether the amount is fixed or percentage-based.
func (a Amount) Kind() AmountKind { return a.kind }

// Equal reports structural equality.
func (a Amount) Equal(other Amount) bool {
	return a.kind == other.kind && a.value.Equal(other.value)
}
