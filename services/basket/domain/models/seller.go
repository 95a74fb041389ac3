package models

import (
	"context"

	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

// SellerLimitService looks up the per-product purchase limit a seller
// enforces. Implemented by infrastructure; the domain only consumes it.
type SellerLimitService interface {
	LimitForProduct(ctx context.Context, sellerID SellerID, productName string) (int, error)
}

// Seller is the merchant an item is bought from. Immutable once created:
// shipping thresholds change through replacement, not mutation.
type Seller struct {
	id            SellerID
	name          string
	rating        float64
	shippingLimit decimal.Decimal
	shippingCost  decimal.Decimal
}

// NewSeller constructs a Seller. A zero id is replaced with a generated one.
func NewSeller(id SellerID, name string, rating float64, shippingLimit, shippingCost decimal.Decimal) (Seller, error) {
	if id.IsZero() {
		id = NewSellerID()
	}
	if name == "" {
		return Seller{}, basketdomain.Validationf("seller name must not be blank")
	}
	if shippingLimit.IsNegative() {
		return Seller{}, basketdomain.Validationf("seller shipping limit must not be negative, got %s", shippingLimit)
	}
	if shippingCost.IsNegative() {
		return Seller{}, basketdomain.Validationf("seller shipping cost must not be negative, got %s", shippingCost)
	}
	return Seller{
		id:            id,
		name:          name,
		rating:        rating,
		shippingLimit: shippingLimit,
		shippingCost:  shippingCost,
	}, nil
}

// ID returns the seller identifier.
func (s Seller) ID() SellerID { return s.id }

// Name returns the seller's display name.
func (s Seller) Name() string { return s.name }

// Rating returns the seller's marketplace rating.
func (s Seller) Rating() float64 { return s.rating }

// ShippingLimit is the order value above which shipping is free.
func (s Seller) ShippingLimit() decimal.Decimal { return s.shippingLimit }

// ShippingCost is the flat cost charged when the limit is not reached.
func (s Seller) ShippingCost() decimal.Decimal { return s.shippingCost }

// LimitForProduct asks the limit collaborator how many units of the named
// product this seller allows per order.
func (s Seller) LimitForProduct(ctx context.Context, productName string, limits SellerLimitService) (int, error) {
	return limits.LimitForProduct(ctx, s.id, productName)
}
