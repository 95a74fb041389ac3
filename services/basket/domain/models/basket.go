package models

import (
	"context"

	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/events"
)

// CouponDiscounter is the discount collaborator consulted during pricing and
// coupon application. Implementations may suspend on I/O; errors propagate
// to the caller unchanged.
type CouponDiscounter interface {
	// ApplyDiscount returns amount with the coupon's discount applied.
	// It may fail if the coupon is unknown or inactive.
	ApplyDiscount(ctx context.Context, couponID CouponID, amount decimal.Decimal) (decimal.Decimal, error)
	// IsActive reports whether the coupon can currently be applied.
	IsActive(ctx context.Context, couponID CouponID) (bool, error)
}

// sellerGroup holds one seller's ordered items plus the remaining
// free-shipping threshold tracker.
type sellerGroup struct {
	seller             Seller
	items              []*BasketItem
	shippingAmountLeft decimal.Decimal
}

// Basket is the aggregate root for a customer's in-progress order. Items are
// grouped by seller in insertion order so pricing iteration is
// deterministic. Every mutation appends exactly one event to the basket's
// buffer; the buffer is drained by the dispatcher after persistence.
//
// Baskets are not safe for concurrent use. One request owns one instance;
// serializing conflicting writers is the storage layer's problem.
type Basket struct {
	id            BasketID
	taxPercentage decimal.Decimal
	customer      Customer
	couponID      *CouponID
	totalAmount   decimal.Decimal
	groups        []*sellerGroup
	index         map[SellerID]*sellerGroup
	buffer        events.Buffer
}

// NewBasket creates an empty basket for the customer. The tax percentage is
// fixed for the basket's lifetime and must not be negative.
func NewBasket(taxPercentage decimal.Decimal, customer Customer) (*Basket, error) {
	if taxPercentage.IsNegative() {
		return nil, basketdomain.Validationf("tax percentage must not be negative, got %s", taxPercentage)
	}
	b := &Basket{
		id:            NewBasketID(),
		taxPercentage: taxPercentage,
		customer:      customer,
		totalAmount:   decimal.Zero,
		index:         make(map[SellerID]*sellerGroup),
	}
	b.buffer.Raise(events.NewBasketCreated(b.id.UUID(), customer.ID().UUID(), taxPercentage))
	return b, nil
}

// ID returns the basket identifier.
func (b *Basket) ID() BasketID { return b.id }

// TaxPercentage returns the immutable tax rate (0–100 scale).
func (b *Basket) TaxPercentage() decimal.Decimal { return b.taxPercentage }

// Customer returns the current basket owner.
func (b *Basket) Customer() Customer { return b.customer }

// TotalAmount returns the last computed payable amount.
func (b *Basket) TotalAmount() decimal.Decimal { return b.totalAmount }

// CouponID returns the applied coupon id, if any.
func (b *Basket) CouponID() (CouponID, bool) {
	if b.couponID == nil {
		return CouponID{}, false
	}
	return *b.couponID, true
}

// Sellers returns the sellers with a group in the basket, in insertion order.
func (b *Basket) Sellers() []Seller {
	out := make([]Seller, len(b.groups))
	for i, g := range b.groups {
		out[i] = g.seller
	}
	return out
}

// Items returns the ordered item list for the seller, or false when the
// seller has no group.
func (b *Basket) Items(sellerID SellerID) ([]*BasketItem, bool) {
	g, ok := b.index[sellerID]
	if !ok {
		return nil, false
	}
	return g.items, true
}

// ItemByID scans every seller group for the item with the given id.
func (b *Basket) ItemByID(itemID BasketItemID) (*BasketItem, bool) {
	for _, g := range b.groups {
		for _, it := range g.items {
			if it.ID() == itemID {
				return it, true
			}
		}
	}
	return nil, false
}

// ItemCount returns the number of items across all seller groups.
func (b *Basket) ItemCount() int {
	n := 0
	for _, g := range b.groups {
		n += len(g.items)
	}
	return n
}

// ShippingAmountLeft returns the seller group's remaining free-shipping
// threshold, or false when the seller has no group.
func (b *Basket) ShippingAmountLeft(sellerID SellerID) (decimal.Decimal, bool) {
	g, ok := b.index[sellerID]
	if !ok {
		return decimal.Zero, false
	}
	return g.shippingAmountLeft, true
}

// PopEvents drains the basket's event buffer in raise order.
func (b *Basket) PopEvents() []events.Event { return b.buffer.PopAll() }

// PendingEvents returns the number of not-yet-popped events.
func (b *Basket) PendingEvents() int { return b.buffer.Len() }

// AddItem appends the item to its seller's group, creating the group with a
// full shipping threshold on first contact with that seller. Duplicate names
// are the storage layer's concern, not checked here.
func (b *Basket) AddItem(item *BasketItem) error {
	if item == nil {
		return basketdomain.Validationf("basket item must not be nil")
	}
	g, ok := b.index[item.Seller().ID()]
	if !ok {
		g = &sellerGroup{
			seller:             item.Seller(),
			shippingAmountLeft: item.Seller().ShippingLimit(),
		}
		b.groups = append(b.groups, g)
		b.index[item.Seller().ID()] = g
	}
	g.items = append(g.items, item)

	b.buffer.Raise(events.NewItemAdded(
		b.id.UUID(),
		item.ID().UUID(),
		item.Name(),
		item.Seller().ID().UUID(),
		item.Quantity().Value(),
		item.Quantity().PricePerUnit(),
	))
	return nil
}

// UpdateItemCount changes the quantity of an item already in the basket.
// The count must be strictly greater than 1 and within the quantity limit.
func (b *Basket) UpdateItemCount(item *BasketItem, count int) error {
	existing, err := b.findItem(item)
	if err != nil {
		return err
	}
	if err := existing.UpdateCount(count); err != nil {
		return err
	}
	b.buffer.Raise(events.NewItemCountUpdated(b.id.UUID(), existing.ID().UUID(), count))
	return nil
}

// DeleteItem removes the item from its seller group.
func (b *Basket) DeleteItem(item *BasketItem) error {
	existing, err := b.findItem(item)
	if err != nil {
		return err
	}
	g := b.index[item.Seller().ID()]
	for i, it := range g.items {
		if it.ID() == existing.ID() {
			g.items = append(g.items[:i], g.items[i+1:]...)
			break
		}
	}
	b.buffer.Raise(events.NewItemDeleted(b.id.UUID(), existing.ID().UUID(), g.seller.ID().UUID()))
	return nil
}

// DeleteAll clears every seller group at once.
func (b *Basket) DeleteAll() {
	b.groups = nil
	b.index = make(map[SellerID]*sellerGroup)
	b.buffer.Raise(events.NewItemsDeleted(b.id.UUID()))
}

// DeactivateItem switches an active item out of pricing. Deactivating an
// already-inactive item fails.
func (b *Basket) DeactivateItem(item *BasketItem) error {
	existing, err := b.findItem(item)
	if err != nil {
		return err
	}
	// Judge the state on the stored instance, not the caller's copy.
	if !existing.IsActive() {
		return basketdomain.Validationf("item %s is already inactive", existing.ID())
	}
	existing.deactivate()
	b.buffer.Raise(events.NewItemDeactivated(b.id.UUID(), existing.ID().UUID()))
	return nil
}

// ActivateItem switches an inactive item back into pricing. Activating an
// already-active item fails.
func (b *Basket) ActivateItem(item *BasketItem) error {
	existing, err := b.findItem(item)
	if err != nil {
		return err
	}
	if existing.IsActive() {
		return basketdomain.Validationf("item %s is already active", existing.ID())
	}
	existing.activate()
	b.buffer.Raise(events.NewItemActivated(b.id.UUID(), existing.ID().UUID()))
	return nil
}

// CalculateShippingAmount recomputes the seller group's remaining
// free-shipping threshold: zero once the active-item subtotal clears the
// seller's limit, the gap to the limit otherwise. This tracker is
// informational; CalculateTotalAmount recomputes shipping on its own.
func (b *Basket) CalculateShippingAmount(sellerID SellerID) error {
	g, ok := b.index[sellerID]
	if !ok {
		return basketdomain.Validationf("no items for seller %s", sellerID)
	}
	total := sellerSubtotal(g)
	if total.GreaterThan(g.seller.ShippingLimit()) {
		g.shippingAmountLeft = decimal.Zero
	} else {
		g.shippingAmountLeft = g.seller.ShippingLimit().Sub(total)
	}
	b.buffer.Raise(events.NewShippingAmountCalculated(b.id.UUID(), sellerID.UUID(), g.shippingAmountLeft))
	return nil
}

// CalculateBasketItemsAmount sums the active-item subtotals of every seller
// group and reports the result as an event. TotalAmount is untouched.
func (b *Basket) CalculateBasketItemsAmount() decimal.Decimal {
	total := decimal.Zero
	for _, g := range b.groups {
		total = total.Add(sellerSubtotal(g))
	}
	b.buffer.Raise(events.NewItemsAmountCalculated(b.id.UUID(), total))
	return total
}

// CalculateTotalAmount runs the pricing pipeline in fixed order: per-seller
// subtotal plus shipping, coupon discount, elite-member discount, then tax.
// The result is stored in TotalAmount and summarized by a single
// TotalAmountCalculated event. Discounter errors propagate unchanged.
func (b *Basket) CalculateTotalAmount(ctx context.Context, discounter CouponDiscounter) (decimal.Decimal, error) {
	base := decimal.Zero
	for _, g := range b.groups {
		subtotal := sellerSubtotal(g)
		base = base.Add(subtotal).Add(shippingCost(g.seller, subtotal))
	}

	if b.couponID != nil {
		discounted, err := discounter.ApplyDiscount(ctx, *b.couponID, base)
		if err != nil {
			return decimal.Zero, err
		}
		base = discounted
	}

	if b.customer.IsEliteMember() {
		base = base.Sub(base.Mul(b.customer.DiscountPercentage()))
	}

	b.totalAmount = applyTax(base, b.taxPercentage)
	b.buffer.Raise(events.NewTotalAmountCalculated(b.id.UUID(), b.totalAmount))
	return b.totalAmount, nil
}

// AssignCustomer replaces the basket owner.
func (b *Basket) AssignCustomer(customer Customer) {
	b.customer = customer
	b.buffer.Raise(events.NewCustomerAssigned(b.id.UUID(), customer.ID().UUID(), customer.IsEliteMember()))
}

// ApplyCoupon attaches a coupon after checking it is active. Re-applying the
// same coupon is a silent no-op and emits nothing.
func (b *Basket) ApplyCoupon(ctx context.Context, couponID CouponID, discounter CouponDiscounter) error {
	if b.couponID != nil && *b.couponID == couponID {
		return nil
	}
	active, err := discounter.IsActive(ctx, couponID)
	if err != nil {
		return err
	}
	if !active {
		return basketdomain.Validationf("coupon %s is not active", couponID)
	}
	b.couponID = &couponID
	b.buffer.Raise(events.NewCouponApplied(b.id.UUID(), couponID.UUID()))
	return nil
}

// RemoveCoupon detaches the applied coupon; fails when none is attached.
func (b *Basket) RemoveCoupon() error {
	if b.couponID == nil {
		return basketdomain.Validationf("no coupon applied to basket %s", b.id)
	}
	removed := *b.couponID
	b.couponID = nil
	b.buffer.Raise(events.NewCouponRemoved(b.id.UUID(), removed.UUID()))
	return nil
}

// findItem locates the stored item matching the argument's seller and id.
// Both the seller group and the item must already exist.
func (b *Basket) findItem(item *BasketItem) (*BasketItem, error) {
	if item == nil {
		return nil, basketdomain.Validationf("basket item must not be nil")
	}
	g, ok := b.index[item.Seller().ID()]
	if !ok {
		return nil, basketdomain.Validationf("no items for seller %s", item.Seller().ID())
	}
	for _, it := range g.items {
		if it.ID() == item.ID() {
			return it, nil
		}
	}
	return nil, basketdomain.Validationf("item %s not found in basket %s", item.ID(), b.id)
}

// sellerSubtotal sums TotalPrice over the group's active items.
func sellerSubtotal(g *sellerGroup) decimal.Decimal {
	total := decimal.Zero
	for _, it := range g.items {
		if it.IsActive() {
			total = total.Add(it.Quantity().TotalPrice())
		}
	}
	return total
}

// shippingCost is zero once the subtotal clears the seller's limit.
func shippingCost(seller Seller, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(seller.ShippingLimit()) {
		return decimal.Zero
	}
	return seller.ShippingCost()
}

// applyTax returns amount + amount * taxPercentage / 100.
func applyTax(amount, taxPercentage decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(taxPercentage).Div(decimal.NewFromInt(100)))
}

// GroupState is the persistence view of one seller group.
type GroupState struct {
	Seller             Seller
	Items              []*BasketItem
	ShippingAmountLeft decimal.Decimal
}

// GroupStates exports the seller groups in insertion order for persistence.
func (b *Basket) GroupStates() []GroupState {
	out := make([]GroupState, len(b.groups))
	for i, g := range b.groups {
		out[i] = GroupState{
			Seller:             g.seller,
			Items:              g.items,
			ShippingAmountLeft: g.shippingAmountLeft,
		}
	}
	return out
}

// RehydrateBasket rebuilds a basket from stored state without raising
// events. Group order is preserved as given.
func RehydrateBasket(
	id BasketID,
	taxPercentage decimal.Decimal,
	customer Customer,
	couponID *CouponID,
	totalAmount decimal.Decimal,
	groups []GroupState,
) *Basket {
	b := &Basket{
		id:            id,
		taxPercentage: taxPercentage,
		customer:      customer,
		couponID:      couponID,
		totalAmount:   totalAmount,
		index:         make(map[SellerID]*sellerGroup, len(groups)),
	}
	for _, gs := range groups {
		g := &sellerGroup{
			seller:             gs.Seller,
			items:              gs.Items,
			shippingAmountLeft: gs.ShippingAmountLeft,
		}
		b.groups = append(b.groups, g)
		b.index[gs.Seller.ID()] = g
	}
	return b
}
