package models

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/events"
)

// fakeDiscounter is an in-memory CouponDiscounter for pricing tests.
type fakeDiscounter struct {
	active   map[CouponID]bool
	discount decimal.Decimal // subtracted from the amount when applied
	err      error
}

func (f *fakeDiscounter) ApplyDiscount(_ context.Context, couponID CouponID, amount decimal.Decimal) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if !f.active[couponID] {
		return decimal.Zero, basketdomain.ErrCouponNotFound
	}
	return amount.Sub(f.discount), nil
}

func (f *fakeDiscounter) IsActive(_ context.Context, couponID CouponID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[couponID], nil
}

func newTestBasket(t *testing.T, tax int64, elite bool) *Basket {
	t.Helper()
	b, err := NewBasket(decimal.NewFromInt(tax), NewCustomer(NewCustomerID(), elite))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.PopEvents() // drop BasketCreated so tests see only their own events
	return b
}

// addItem puts an item with the given unit price and count under the seller.
func addItem(t *testing.T, b *Basket, seller Seller, name string, count int, price int64) *BasketItem {
	t.Helper()
	q, err := NewQuantity(count, 100, decimal.NewFromInt(price))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item, err := NewBasketItem(NewBasketItemID(), name, "https://cdn.example.com/p.png", q, seller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.AddItem(item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return item
}

func TestNewBasket(t *testing.T) {
	t.Run("raises BasketCreated", func(t *testing.T) {
		b, err := NewBasket(decimal.NewFromInt(18), NewCustomer(NewCustomerID(), false))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		evts := b.PopEvents()
		if len(evts) != 1 {
			t.Fatalf("expected 1 event, got %d", len(evts))
		}
		if evts[0].EventType() != events.TypeBasketCreated {
			t.Fatalf("expected %s, got %s", events.TypeBasketCreated, evts[0].EventType())
		}
		if evts[0].AggregateID() != b.ID().UUID() {
			t.Fatal("event aggregate id does not match basket id")
		}
	})

	t.Run("negative tax rejected", func(t *testing.T) {
		_, err := NewBasket(decimal.NewFromInt(-1), NewCustomer(NewCustomerID(), false))
		if !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestBasketAddItem(t *testing.T) {
	b := newTestBasket(t, 18, false)
	sellerA := testSeller(t)
	sellerB := testSeller(t)

	addItem(t, b, sellerA, "Mouse", 1, 100)
	addItem(t, b, sellerA, "Keyboard", 1, 100)
	addItem(t, b, sellerB, "Monitor", 1, 100)

	t.Run("groups items by seller in insertion order", func(t *testing.T) {
		sellers := b.Sellers()
		if len(sellers) != 2 {
			t.Fatalf("expected 2 seller groups, got %d", len(sellers))
		}
		if sellers[0].ID() != sellerA.ID() || sellers[1].ID() != sellerB.ID() {
			t.Fatal("seller groups out of insertion order")
		}
		items, _ := b.Items(sellerA.ID())
		if len(items) != 2 {
			t.Fatalf("expected 2 items for first seller, got %d", len(items))
		}
	})

	t.Run("new group starts with full shipping threshold", func(t *testing.T) {
		left, ok := b.ShippingAmountLeft(sellerA.ID())
		if !ok {
			t.Fatal("expected shipping tracker for seller")
		}
		if !left.Equal(sellerA.ShippingLimit()) {
			t.Fatalf("expected %s, got %s", sellerA.ShippingLimit(), left)
		}
	})

	t.Run("raises one ItemAdded per item", func(t *testing.T) {
		evts := b.PopEvents()
		if len(evts) != 3 {
			t.Fatalf("expected 3 events, got %d", len(evts))
		}
		for _, e := range evts {
			if e.EventType() != events.TypeItemAdded {
				t.Fatalf("expected %s, got %s", events.TypeItemAdded, e.EventType())
			}
		}
	})

	t.Run("nil item rejected", func(t *testing.T) {
		if err := b.AddItem(nil); !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestBasketCalculateShippingAmount(t *testing.T) {
	// Seller ships free above 300, otherwise charges 45.
	t.Run("below limit leaves the gap", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		seller := testSeller(t)
		addItem(t, b, seller, "Mouse", 2, 100) // subtotal 200

		if err := b.CalculateShippingAmount(seller.ID()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		left, _ := b.ShippingAmountLeft(seller.ID())
		if !left.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("expected 100 left, got %s", left)
		}
	})

	t.Run("above limit leaves zero", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		seller := testSeller(t)
		addItem(t, b, seller, "Monitor", 4, 100) // subtotal 400

		if err := b.CalculateShippingAmount(seller.ID()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		left, _ := b.ShippingAmountLeft(seller.ID())
		if !left.IsZero() {
			t.Fatalf("expected 0 left, got %s", left)
		}
	})

	t.Run("unknown seller rejected", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		err := b.CalculateShippingAmount(NewSellerID())
		if !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestBasketCalculateBasketItemsAmount(t *testing.T) {
	b := newTestBasket(t, 18, false)
	seller := testSeller(t)
	addItem(t, b, seller, "Mouse", 2, 100)
	inactive := addItem(t, b, seller, "Keyboard", 1, 50)
	if err := b.DeactivateItem(inactive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := b.CalculateBasketItemsAmount()
	if !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200 (inactive item skipped), got %s", got)
	}
	if !b.TotalAmount().IsZero() {
		t.Fatal("items amount must not touch TotalAmount")
	}
}

func TestBasketCalculateTotalAmount(t *testing.T) {
	ctx := context.Background()
	discounter := &fakeDiscounter{active: map[CouponID]bool{}}

	t.Run("free shipping above limit plus tax", func(t *testing.T) {
		b := newTestBasket(t, 18, false)
		addItem(t, b, testSeller(t), "Monitor", 5, 100) // subtotal 500 > 300 limit

		total, err := b.CalculateTotalAmount(ctx, discounter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !total.Equal(decimal.NewFromInt(590)) {
			t.Fatalf("expected 590, got %s", total)
		}
		if !b.TotalAmount().Equal(total) {
			t.Fatal("TotalAmount not stored")
		}
	})

	t.Run("shipping charged below limit", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		addItem(t, b, testSeller(t), "Mouse", 2, 100) // subtotal 200 <= 300

		total, err := b.CalculateTotalAmount(ctx, discounter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !total.Equal(decimal.NewFromInt(245)) {
			t.Fatalf("expected 245 (200 + 45 shipping), got %s", total)
		}
	})

	t.Run("elite discount before tax", func(t *testing.T) {
		b := newTestBasket(t, 18, true)
		addItem(t, b, testSeller(t), "Monitor", 5, 100) // subtotal 500

		total, err := b.CalculateTotalAmount(ctx, discounter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 500 - 10% = 450, +18% tax = 531
		if !total.Equal(decimal.NewFromInt(531)) {
			t.Fatalf("expected 531, got %s", total)
		}
	})

	t.Run("coupon discount before elite and tax", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		addItem(t, b, testSeller(t), "Monitor", 5, 100) // subtotal 500

		couponID := NewCouponID()
		d := &fakeDiscounter{active: map[CouponID]bool{couponID: true}, discount: decimal.NewFromInt(50)}
		if err := b.ApplyCoupon(ctx, couponID, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		total, err := b.CalculateTotalAmount(ctx, d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !total.Equal(decimal.NewFromInt(450)) {
			t.Fatalf("expected 450, got %s", total)
		}
	})

	t.Run("discounter error propagates and leaves total untouched", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		addItem(t, b, testSeller(t), "Monitor", 5, 100)

		couponID := NewCouponID()
		okDiscounter := &fakeDiscounter{active: map[CouponID]bool{couponID: true}}
		if err := b.ApplyCoupon(ctx, couponID, okDiscounter); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		failing := &fakeDiscounter{err: errors.New("discount store down")}
		if _, err := b.CalculateTotalAmount(ctx, failing); err == nil {
			t.Fatal("expected error, got nil")
		}
		if !b.TotalAmount().IsZero() {
			t.Fatal("failed calculation must not store a total")
		}
	})

	t.Run("raises a single TotalAmountCalculated", func(t *testing.T) {
		b := newTestBasket(t, 18, false)
		addItem(t, b, testSeller(t), "Monitor", 5, 100)
		b.PopEvents()

		if _, err := b.CalculateTotalAmount(ctx, discounter); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		evts := b.PopEvents()
		if len(evts) != 1 || evts[0].EventType() != events.TypeTotalAmountCalculated {
			t.Fatalf("expected one TotalAmountCalculated, got %v", evts)
		}
	})
}

func TestBasketItemLifecycle(t *testing.T) {
	t.Run("deactivate then activate round-trips", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		item := addItem(t, b, testSeller(t), "Mouse", 1, 100)

		if err := b.DeactivateItem(item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.IsActive() {
			t.Fatal("expected item inactive")
		}
		if err := b.ActivateItem(item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !item.IsActive() {
			t.Fatal("expected item active")
		}
	})

	t.Run("deactivating an inactive item fails", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		item := addItem(t, b, testSeller(t), "Mouse", 1, 100)
		_ = b.DeactivateItem(item)
		if err := b.DeactivateItem(item); !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("activating an active item fails", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		item := addItem(t, b, testSeller(t), "Mouse", 1, 100)
		if err := b.ActivateItem(item); !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("toggle preconditions judge the stored item, not the caller's copy", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		item := addItem(t, b, testSeller(t), "Mouse", 1, 100)
		if err := b.DeactivateItem(item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stale, err := RehydrateBasketItem(item.ID(), item.Name(), item.ImageURL(), item.Quantity(), item.Seller(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := b.DeactivateItem(stale); !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error for stored-inactive item, got %v", err)
		}
		if err := b.ActivateItem(stale); err != nil {
			t.Fatalf("expected activation against stored state to succeed, got %v", err)
		}

		stored, _ := b.ItemByID(item.ID())
		if !stored.IsActive() {
			t.Fatal("expected stored item active")
		}
	})

	t.Run("delete removes only the given item", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		seller := testSeller(t)
		item1 := addItem(t, b, seller, "Mouse", 1, 100)
		addItem(t, b, seller, "Keyboard", 1, 100)

		if err := b.DeleteItem(item1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items, _ := b.Items(seller.ID())
		if len(items) != 1 || items[0].Name() != "Keyboard" {
			t.Fatalf("expected only Keyboard left, got %d items", len(items))
		}
	})

	t.Run("delete all clears every group", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		addItem(t, b, testSeller(t), "Mouse", 1, 100)
		addItem(t, b, testSeller(t), "Monitor", 1, 100)

		b.DeleteAll()
		if b.ItemCount() != 0 {
			t.Fatalf("expected empty basket, got %d items", b.ItemCount())
		}
		if len(b.Sellers()) != 0 {
			t.Fatal("expected no seller groups")
		}
	})

	t.Run("update count raises ItemCountUpdated", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		item := addItem(t, b, testSeller(t), "Mouse", 1, 100)
		b.PopEvents()

		if err := b.UpdateItemCount(item, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		evts := b.PopEvents()
		if len(evts) != 1 || evts[0].EventType() != events.TypeItemCountUpdated {
			t.Fatalf("expected one ItemCountUpdated, got %v", evts)
		}
	})

	t.Run("operations on foreign items fail", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		other := newTestBasket(t, 0, false)
		foreign := addItem(t, other, testSeller(t), "Mouse", 1, 100)

		if err := b.DeleteItem(foreign); !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestBasketCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("apply active coupon", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		couponID := NewCouponID()
		d := &fakeDiscounter{active: map[CouponID]bool{couponID: true}}

		if err := b.ApplyCoupon(ctx, couponID, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, ok := b.CouponID()
		if !ok || got != couponID {
			t.Fatal("coupon not attached")
		}
		evts := b.PopEvents()
		if len(evts) != 1 || evts[0].EventType() != events.TypeCouponApplied {
			t.Fatalf("expected one CouponApplied, got %v", evts)
		}
	})

	t.Run("re-applying the same coupon is a silent no-op", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		couponID := NewCouponID()
		d := &fakeDiscounter{active: map[CouponID]bool{couponID: true}}
		_ = b.ApplyCoupon(ctx, couponID, d)
		b.PopEvents()

		if err := b.ApplyCoupon(ctx, couponID, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.PendingEvents() != 0 {
			t.Fatal("no-op must not raise events")
		}
	})

	t.Run("inactive coupon rejected", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		d := &fakeDiscounter{active: map[CouponID]bool{}}
		err := b.ApplyCoupon(ctx, NewCouponID(), d)
		if !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("remove without coupon fails", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		if err := b.RemoveCoupon(); !errors.Is(err, basketdomain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("remove detaches and raises CouponRemoved", func(t *testing.T) {
		b := newTestBasket(t, 0, false)
		couponID := NewCouponID()
		d := &fakeDiscounter{active: map[CouponID]bool{couponID: true}}
		_ = b.ApplyCoupon(ctx, couponID, d)
		b.PopEvents()

		if err := b.RemoveCoupon(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := b.CouponID(); ok {
			t.Fatal("coupon still attached")
		}
		evts := b.PopEvents()
		if len(evts) != 1 || evts[0].EventType() != events.TypeCouponRemoved {
			t.Fatalf("expected one CouponRemoved, got %v", evts)
		}
	})
}

func TestRehydrateBasket(t *testing.T) {
	original := newTestBasket(t, 18, true)
	seller := testSeller(t)
	addItem(t, original, seller, "Mouse", 2, 100)
	original.PopEvents()

	rebuilt := RehydrateBasket(
		original.ID(),
		original.TaxPercentage(),
		original.Customer(),
		nil,
		original.TotalAmount(),
		original.GroupStates(),
	)

	if rebuilt.ID() != original.ID() {
		t.Fatal("id not preserved")
	}
	if rebuilt.ItemCount() != 1 {
		t.Fatalf("expected 1 item, got %d", rebuilt.ItemCount())
	}
	if rebuilt.PendingEvents() != 0 {
		t.Fatal("rehydration must not raise events")
	}
	items, ok := rebuilt.Items(seller.ID())
	if !ok || len(items) != 1 {
		t.Fatal("seller group not rebuilt")
	}
}
