// Package services contains infrastructure implementations of the domain's
// collaborator ports: the coupon discounter and the seller limit lookup.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/models"
	"github.com/ghuser/basketctx/services/basket/domain/repositories"
)

// PercentConvention selects how a percentage coupon's raw value scales the
// basket total. Historically two call sites disagreed (one divided by 100,
// one did not), so the convention is an explicit constructor parameter and
// never inferred.
type PercentConvention int

const (
	// ConventionPercent reads the value on a 0–100 scale: 10 means 10%.
	ConventionPercent PercentConvention = iota
	// ConventionFraction reads the value on a 0–1 scale: 0.1 means 10%.
	ConventionFraction
)

// ParsePercentConvention maps the config string to a PercentConvention.
func ParsePercentConvention(s string) (PercentConvention, error) {
	switch s {
	case "percent":
		return ConventionPercent, nil
	case "fraction":
		return ConventionFraction, nil
	default:
		return 0, fmt.Errorf("unknown percent convention %q", s)
	}
}

var hundred = decimal.NewFromInt(100)

// CouponDiscounter implements models.CouponDiscounter on top of the coupon
// repository.
type CouponDiscounter struct {
	coupons    repositories.CouponRepository
	convention PercentConvention
}

// NewCouponDiscounter builds a CouponDiscounter with the given percentage
// convention.
func NewCouponDiscounter(coupons repositories.CouponRepository, convention PercentConvention) *CouponDiscounter {
	return &CouponDiscounter{coupons: coupons, convention: convention}
}

// ApplyDiscount returns amount with the coupon's discount applied. Fails when
// the coupon is unknown or inactive; the pricing pipeline propagates that
// error unchanged.
func (d *CouponDiscounter) ApplyDiscount(ctx context.Context, couponID models.CouponID, amount decimal.Decimal) (decimal.Decimal, error) {
	coupon, err := d.coupons.GetByID(ctx, couponID)
	if err != nil {
		return decimal.Zero, err
	}
	if !coupon.IsActive() {
		return decimal.Zero, basketdomain.Validationf("coupon %s is not active", couponID)
	}

	switch coupon.Amount().Kind() {
	case models.AmountFix:
		// A fix coupon larger than the base floors at zero, never negative.
		return decimal.Max(decimal.Zero, amount.Sub(coupon.Amount().Value())), nil
	case models.AmountPercentage:
		return amount.Sub(d.percentageOf(amount, coupon.Amount().Value())), nil
	default:
		return decimal.Zero, basketdomain.Validationf("unknown amount kind %q", coupon.Amount().Kind())
	}
}

// IsActive reports whether the coupon exists and is active. A missing coupon
// is simply inactive, not an error.
func (d *CouponDiscounter) IsActive(ctx context.Context, couponID models.CouponID) (bool, error) {
	coupon, err := d.coupons.GetByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, basketdomain.ErrCouponNotFound) {
			return false, nil
		}
		return false, err
	}
	return coupon.IsActive(), nil
}

func (d *CouponDiscounter) percentageOf(amount, value decimal.Decimal) decimal.Decimal {
	if d.convention == ConventionFraction {
		return amount.Mul(value)
	}
	return amount.Mul(value).Div(hundred)
}
