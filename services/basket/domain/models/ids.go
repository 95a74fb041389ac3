package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed identifiers for every entity in the basket context. Each is a
// distinct uuid-backed type so a CouponID can never be passed where a
// BasketID is expected. The zero UUID is rejected everywhere.

// BasketID identifies a Basket aggregate.
type BasketID struct{ value uuid.UUID }

// CouponID identifies a Coupon aggregate.
type CouponID struct{ value uuid.UUID }

// BasketItemID identifies a BasketItem entity.
type BasketItemID struct{ value uuid.UUID }

// SellerID identifies a Seller entity.
type SellerID struct{ value uuid.UUID }

// CustomerID identifies a Customer entity.
type CustomerID struct{ value uuid.UUID }

// NewBasketID returns a freshly generated BasketID.
func NewBasketID() BasketID { return BasketID{uuid.New()} }

// NewCouponID returns a freshly generated CouponID.
func NewCouponID() CouponID { return CouponID{uuid.New()} }

// NewBasketItemID returns a freshly generated BasketItemID.
func NewBasketItemID() BasketItemID { return BasketItemID{uuid.New()} }

// NewSellerID returns a freshly generated SellerID.
func NewSellerID() SellerID { return SellerID{uuid.New()} }

// NewCustomerID returns a freshly generated CustomerID.
func NewCustomerID() CustomerID { return CustomerID{uuid.New()} }

// ParseBasketID parses s into a BasketID, rejecting malformed and zero values.
func ParseBasketID(s string) (BasketID, error) {
	v, err := parseID("basket", s)
	return BasketID{v}, err
}

// ParseCouponID parses s into a CouponID, rejecting malformed and zero values.
func ParseCouponID(s string) (CouponID, error) {
	v, err := parseID("coupon", s)
	return CouponID{v}, err
}

// ParseBasketItemID parses s into a BasketItemID, rejecting malformed and zero values.
func ParseBasketItemID(s string) (BasketItemID, error) {
	v, err := parseID("basket item", s)
	return BasketItemID{v}, err
}

// ParseSellerID parses s into a SellerID, rejecting malformed and zero values.
func ParseSellerID(s string) (SellerID, error) {
	v, err := parseID("seller", s)
	return SellerID{v}, err
}

// ParseCustomerID parses s into a CustomerID, rejecting malformed and zero values.
func ParseCustomerID(s string) (CustomerID, error) {
	v, err := parseID("customer", s)
	return CustomerID{v}, err
}

func parseID(kind, s string) (uuid.UUID, error) {
	v, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse %s id: %w", kind, err)
	}
	if v == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s id must not be the zero uuid", kind)
	}
	return v, nil
}

func (id BasketID) UUID() uuid.UUID     { return id.value }
func (id CouponID) UUID() uuid.UUID     { return id.value }
func (id BasketItemID) UUID() uuid.UUID { return id.value }
func (id SellerID) UUID() uuid.UUID     { return id.value }
func (id CustomerID) UUID() uuid.UUID   { return id.value }

func (id BasketID) String() string     { return id.value.String() }
func (id CouponID) String() string     { return id.value.String() }
func (id BasketItemID) String() string { return id.value.String() }
func (id SellerID) String() string     { return id.value.String() }
func (id CustomerID) String() string   { return id.value.String() }

// IsZero reports whether the identifier is the zero value, i.e. unset.
func (id BasketID) IsZero() bool     { return id.value == uuid.Nil }
func (id CouponID) IsZero() bool     { return id.value == uuid.Nil }
func (id BasketItemID) IsZero() bool { return id.value == uuid.Nil }
func (id SellerID) IsZero() bool     { return id.value == uuid.Nil }
func (id CustomerID) IsZero() bool   { return id.value == uuid.Nil }

// BasketIDFromUUID wraps an existing uuid, rejecting the zero value.
func BasketIDFromUUID(v uuid.UUID) (BasketID, error) {
	if v == uuid.Nil {
		return BasketID{}, fmt.Errorf("basket id must not be the zero uuid")
	}
	return BasketID{v}, nil
}

// CouponIDFromUUID wraps an existing uuid, rejecting the zero value.
func CouponIDFromUUID(v uuid.UUID) (CouponID, error) {
	if v == uuid.Nil {
		return CouponID{}, fmt.Errorf("coupon id must not be the zero uuid")
	}
	return CouponID{v}, nil
}
