package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType constants for the Basket aggregate. These are the dispatch-table
// keys and the watermill topics for the published integration copies.
const (
	TypeBasketCreated            = KindBasket + ".BasketCreated"
	TypeItemAdded                = KindBasket + ".ItemAdded"
	TypeItemCountUpdated         = KindBasket + ".ItemCountUpdated"
	TypeItemDeleted              = KindBasket + ".ItemDeleted"
	TypeItemsDeleted             = KindBasket + ".ItemsDeleted"
	TypeItemDeactivated          = KindBasket + ".ItemDeactivated"
	TypeItemActivated            = KindBasket + ".ItemActivated"
	TypeShippingAmountCalculated = KindBasket + ".ShippingAmountCalculated"
	TypeItemsAmountCalculated    = KindBasket + ".ItemsAmountCalculated"
	TypeTotalAmountCalculated    = KindBasket + ".TotalAmountCalculated"
	TypeCustomerAssigned         = KindBasket + ".CustomerAssigned"
	TypeCouponApplied            = KindBasket + ".CouponApplied"
	TypeCouponRemoved            = KindBasket + ".CouponRemoved"
)

// BasketCreated is raised once by the basket factory.
type BasketCreated struct {
	Envelope
	CustomerID    uuid.UUID       `json:"customer_id"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

// NewBasketCreated builds a BasketCreated event.
func NewBasketCreated(basketID, customerID uuid.UUID, taxPercentage decimal.Decimal) BasketCreated {
	return BasketCreated{
		Envelope:      NewEnvelope(KindBasket, "BasketCreated", basketID),
		CustomerID:    customerID,
		TaxPercentage: taxPercentage,
	}
}

// ItemAdded is raised when an item joins its seller group.
type ItemAdded struct {
	Envelope
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	SellerID uuid.UUID       `json:"seller_id"`
	Count    int             `json:"count"`
	Price    decimal.Decimal `json:"price_per_unit"`
}

// NewItemAdded builds an ItemAdded event.
func NewItemAdded(basketID, itemID uuid.UUID, itemName string, sellerID uuid.UUID, count int, price decimal.Decimal) ItemAdded {
	return ItemAdded{
		Envelope: NewEnvelope(KindBasket, "ItemAdded", basketID),
		ItemID:   itemID,
		ItemName: itemName,
		SellerID: sellerID,
		Count:    count,
		Price:    price,
	}
}

// ItemCountUpdated is raised when an item's quantity value changes.
type ItemCountUpdated struct {
	Envelope
	ItemID   uuid.UUID `json:"item_id"`
	NewCount int       `json:"new_count"`
}

// NewItemCountUpdated builds an ItemCountUpdated event.
func NewItemCountUpdated(basketID, itemID uuid.UUID, newCount int) ItemCountUpdated {
	return ItemCountUpdated{
		Envelope: NewEnvelope(KindBasket, "ItemCountUpdated", basketID),
		ItemID:   itemID,
		NewCount: newCount,
	}
}

// ItemDeleted is raised when a single item leaves the basket.
type ItemDeleted struct {
	Envelope
	ItemID   uuid.UUID `json:"item_id"`
	SellerID uuid.UUID `json:"seller_id"`
}

// NewItemDeleted builds an ItemDeleted event.
func NewItemDeleted(basketID, itemID, sellerID uuid.UUID) ItemDeleted {
	return ItemDeleted{
		Envelope: NewEnvelope(KindBasket, "ItemDeleted", basketID),
		ItemID:   itemID,
		SellerID: sellerID,
	}
}

// ItemsDeleted is raised when the whole basket is cleared.
type ItemsDeleted struct {
	Envelope
}

// NewItemsDeleted builds an ItemsDeleted event.
func NewItemsDeleted(basketID uuid.UUID) ItemsDeleted {
	return ItemsDeleted{Envelope: NewEnvelope(KindBasket, "ItemsDeleted", basketID)}
}

// ItemDeactivated is raised when an active item is switched off pricing.
type ItemDeactivated struct {
	Envelope
	ItemID uuid.UUID `json:"item_id"`
}

// NewItemDeactivated builds an ItemDeactivated event.
func NewItemDeactivated(basketID, itemID uuid.UUID) ItemDeactivated {
	return ItemDeactivated{
		Envelope: NewEnvelope(KindBasket, "ItemDeactivated", basketID),
		ItemID:   itemID,
	}
}

// ItemActivated is raised when an inactive item rejoins pricing.
type ItemActivated struct {
	Envelope
	ItemID uuid.UUID `json:"item_id"`
}

// NewItemActivated builds an ItemActivated event.
func NewItemActivated(basketID, itemID uuid.UUID) ItemActivated {
	return ItemActivated{
		Envelope: NewEnvelope(KindBasket, "ItemActivated", basketID),
		ItemID:   itemID,
	}
}

// ShippingAmountCalculated reports the remaining free-shipping threshold
// for one seller group.
type ShippingAmountCalculated struct {
	Envelope
	SellerID           uuid.UUID       `json:"seller_id"`
	ShippingAmountLeft decimal.Decimal `json:"shipping_amount_left"`
}

// NewShippingAmountCalculated builds a ShippingAmountCalculated event.
func NewShippingAmountCalculated(basketID, sellerID uuid.UUID, left decimal.Decimal) ShippingAmountCalculated {
	return ShippingAmountCalculated{
		Envelope:           NewEnvelope(KindBasket, "ShippingAmountCalculated", basketID),
		SellerID:           sellerID,
		ShippingAmountLeft: left,
	}
}

// ItemsAmountCalculated reports the active-items subtotal across all sellers.
type ItemsAmountCalculated struct {
	Envelope
	Total decimal.Decimal `json:"total"`
}

// NewItemsAmountCalculated builds an ItemsAmountCalculated event.
func NewItemsAmountCalculated(basketID uuid.UUID, total decimal.Decimal) ItemsAmountCalculated {
	return ItemsAmountCalculated{
		Envelope: NewEnvelope(KindBasket, "ItemsAmountCalculated", basketID),
		Total:    total,
	}
}

// TotalAmountCalculated reports the final payable amount after shipping,
// discounts and tax. One event summarizes the whole recompute.
type TotalAmountCalculated struct {
	Envelope
	Total decimal.Decimal `json:"total"`
}

// NewTotalAmountCalculated builds a TotalAmountCalculated event.
func NewTotalAmountCalculated(basketID uuid.UUID, total decimal.Decimal) TotalAmountCalculated {
	return TotalAmountCalculated{
		Envelope: NewEnvelope(KindBasket, "TotalAmountCalculated", basketID),
		Total:    total,
	}
}

// CustomerAssigned is raised when the basket owner is replaced.
type CustomerAssigned struct {
	Envelope
	CustomerID    uuid.UUID `json:"customer_id"`
	IsEliteMember bool      `json:"is_elite_member"`
}

// NewCustomerAssigned builds a CustomerAssigned event.
func NewCustomerAssigned(basketID, customerID uuid.UUID, elite bool) CustomerAssigned {
	return CustomerAssigned{
		Envelope:      NewEnvelope(KindBasket, "CustomerAssigned", basketID),
		CustomerID:    customerID,
		IsEliteMember: elite,
	}
}

// CouponApplied is raised when a coupon is attached to the basket.
type CouponApplied struct {
	Envelope
	CouponID uuid.UUID `json:"coupon_id"`
}

// NewCouponApplied builds a CouponApplied event.
func NewCouponApplied(basketID, couponID uuid.UUID) CouponApplied {
	return CouponApplied{
		Envelope: NewEnvelope(KindBasket, "CouponApplied", basketID),
		CouponID: couponID,
	}
}

// CouponRemoved is raised when the attached coupon is detached again.
type CouponRemoved struct {
	Envelope
	CouponID uuid.UUID `json:"coupon_id"`
}

// NewCouponRemoved builds a CouponRemoved event.
func NewCouponRemoved(basketID, couponID uuid.UUID) CouponRemoved {
	return CouponRemoved{
		Envelope: NewEnvelope(KindBasket, "CouponRemoved", basketID),
		CouponID: couponID,
	}
}
