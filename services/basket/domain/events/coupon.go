package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType constants for the Coupon aggregate.
const (
	TypeCouponCreated     = KindCoupon + ".CouponCreated"
	TypeCouponActivated   = KindCoupon + ".CouponActivated"
	TypeCouponDeactivated = KindCoupon + ".CouponDeactivated"
)

// CouponCreated is raised once by the coupon factory.
type CouponCreated struct {
	Envelope
	Code        string          `json:"code"`
	AmountValue decimal.Decimal `json:"amount_value"`
	AmountKind  string          `json:"amount_kind"`
	ValidFrom   time.Time       `json:"valid_from"`
	ValidUntil  time.Time       `json:"valid_until"`
}

// NewCouponCreated builds a CouponCreated event.
func NewCouponCreated(couponID uuid.UUID, code string, amountValue decimal.Decimal, amountKind string, validFrom, validUntil time.Time) CouponCreated {
	return CouponCreated{
		Envelope:    NewEnvelope(KindCoupon, "CouponCreated", couponID),
		Code:        code,
		AmountValue: amountValue,
		AmountKind:  amountKind,
		ValidFrom:   validFrom,
		ValidUntil:  validUntil,
	}
}

// CouponActivated is raised when an inactive coupon is switched back on.
type CouponActivated struct {
	Envelope
}

// NewCouponActivated builds a CouponActivated event.
func NewCouponActivated(couponID uuid.UUID) CouponActivated {
	return CouponActivated{Envelope: NewEnvelope(KindCoupon, "CouponActivated", couponID)}
}

// CouponDeactivated is raised when an active coupon is switched off.
type CouponDeactivated struct {
	Envelope
}

// NewCouponDeactivated builds a CouponDeactivated event.
func NewCouponDeactivated(couponID uuid.UUID) CouponDeactivated {
	return CouponDeactivated{Envelope: NewEnvelope(KindCoupon, "CouponDeactivated", couponID)}
}
