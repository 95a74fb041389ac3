package models

import (
	"time"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/events"
)

const (
	minCouponCodeLen = 6
	maxCouponCodeLen = 10
)

// Coupon is the aggregate gating a discount. It is born active and toggles
// between active and inactive; reactivation is only allowed while the
// validity period still covers the current time.
type Coupon struct {
	id             CouponID
	code           string
	amount         Amount
	validityPeriod DateRange
	isActive       bool
	buffer         events.Buffer
}

// NewCoupon creates an active coupon. The code must be 6–10 characters.
func NewCoupon(code string, amount Amount, validityPeriod DateRange) (*Coupon, error) {
	if l := len(code); l < minCouponCodeLen || l > maxCouponCodeLen {
		return nil, basketdomain.Validationf("coupon code length must be between %d and %d, got %d",
			minCouponCodeLen, maxCouponCodeLen, l)
	}
	c := &Coupon{
		id:             NewCouponID(),
		code:           code,
		amount:         amount,
		validityPeriod: validityPeriod,
		isActive:       true,
	}
	c.buffer.Raise(events.NewCouponCreated(
		c.id.UUID(), code, amount.Value(), string(amount.Kind()),
		validityPeriod.Start(), validityPeriod.End(),
	))
	return c, nil
}

// ID returns the coupon identifier.
func (c *Coupon) ID() CouponID { return c.id }

// Code returns the redemption code.
func (c *Coupon) Code() string { return c.code }

// Amount returns the discount amount.
func (c *Coupon) Amount() Amount { return c.amount }

// ValidityPeriod returns the period the coupon may be active in.
func (c *Coupon) ValidityPeriod() DateRange { return c.validityPeriod }

// IsActive reports whether the coupon currently grants its discount.
func (c *Coupon) IsActive() bool { return c.isActive }

// PopEvents drains the coupon's event buffer in raise order.
func (c *Coupon) PopEvents() []events.Event { return c.buffer.PopAll() }

// Activate turns an inactive coupon back on. It fails when the coupon is
// already active or when now falls outside the validity period (bounds
// inclusive).
func (c *Coupon) Activate(now time.Time) error {
	if c.isActive {
		return basketdomain.Validationf("coupon %s is already active", c.id)
	}
	if !c.validityPeriod.Contains(now) {
		return basketdomain.Validationf("coupon %s is outside its validity period", c.id)
	}
	c.isActive = true
	c.buffer.Raise(events.NewCouponActivated(c.id.UUID()))
	return nil
}

// Deactivate turns an active coupon off. It fails when already inactive.
func (c *Coupon) Deactivate() error {
	if !c.isActive {
		return basketdomain.Validationf("coupon %s is already inactive", c.id)
	}
	c.isActive = false
	c.buffer.Raise(events.NewCouponDeactivated(c.id.UUID()))
	return nil
}

// RehydrateCoupon rebuilds a coupon from stored state without raising events.
func RehydrateCoupon(id CouponID, code string, amount Amount, validityPeriod DateRange, isActive bool) *Coupon {
	return &Coupon{
		id:             id,
		code:           code,
		amount:         amount,
		validityPeriod: validityPeriod,
		isActive:       isActive,
	}
}
