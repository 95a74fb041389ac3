package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/basketctx/pkg/cache"
	"github.com/ghuser/basketctx/pkg/logger"
	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/dispatch"
	"github.com/ghuser/basketctx/services/basket/domain/models"
	"github.com/ghuser/basketctx/services/basket/domain/repositories"
)

// BasketService orchestrates the basket aggregate: it loads the basket,
// applies one domain operation, persists the result and then dispatches the
// events the aggregate raised. Dispatch runs after the write so handlers
// always observe committed state.
type BasketService struct {
	baskets    repositories.BasketRepository
	limits     models.SellerLimitService
	discounter models.CouponDiscounter
	dispatcher *dispatch.Dispatcher
	cache      *pkgcache.BasketCache
	log        logger.Logger
}

// NewBasketService wires a BasketService.
func NewBasketService(
	baskets repositories.BasketRepository,
	limits models.SellerLimitService,
	discounter models.CouponDiscounter,
	dispatcher *dispatch.Dispatcher,
	basketCache *pkgcache.BasketCache,
	log logger.Logger,
) *BasketService {
	return &BasketService{
		baskets:    baskets,
		limits:     limits,
		discounter: discounter,
		dispatcher: dispatcher,
		cache:      basketCache,
		log:        log,
	}
}

// Create opens a new basket for the customer. A customer has at most one
// basket; a second Create returns ErrBasketAlreadyExists.
func (s *BasketService) Create(ctx context.Context, customerID models.CustomerID, isEliteMember bool, taxPercentage decimal.Decimal) (*models.Basket, error) {
	exists, err := s.baskets.ExistsByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("check basket: %w", err)
	}
	if exists {
		return nil, basketdomain.ErrBasketAlreadyExists
	}

	basket, err := models.NewBasket(taxPercentage, models.NewCustomer(customerID, isEliteMember))
	if err != nil {
		return nil, err
	}
	if err := s.baskets.Add(ctx, basket); err != nil {
		return nil, fmt.Errorf("save basket: %w", err)
	}
	if err := s.dispatcher.Dispatch(ctx, basket.PopEvents()); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	s.warmCache(basket)
	return basket, nil
}

// Get loads the full basket aggregate.
func (s *BasketService) Get(ctx context.Context, basketID models.BasketID) (*models.Basket, error) {
	basket, err := s.baskets.GetByID(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}
	return basket, nil
}

// GetSummary serves the denormalized basket summary using a read-through
// cache: Redis first, Postgres on miss, then warm the cache asynchronously.
func (s *BasketService) GetSummary(ctx context.Context, basketID models.BasketID) (*pkgcache.CachedBasket, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, basketID.UUID())
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "basket cache read failed", "basket_id", basketID, "error", err)
		}
	}

	basket, err := s.baskets.GetByID(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}
	summary := summarize(basket)
	s.warmCache(basket)
	return summary, nil
}

// RefreshSummary reloads the basket from storage and rewrites its cached
// summary synchronously. The worker calls this when pricing events arrive.
func (s *BasketService) RefreshSummary(ctx context.Context, basketID models.BasketID) error {
	basket, err := s.baskets.GetByID(ctx, basketID)
	if err != nil {
		return fmt.Errorf("get basket: %w", err)
	}
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Set(ctx, summarize(basket)); err != nil {
		return fmt.Errorf("warm basket cache: %w", err)
	}
	return nil
}

// AddItemInput carries everything needed to add one item to a basket.
type AddItemInput struct {
	Name          string
	ImageURL      string
	Count         int
	PricePerUnit  decimal.Decimal
	SellerID      models.SellerID
	SellerName    string
	SellerRating  float64
	ShippingLimit decimal.Decimal
	ShippingCost  decimal.Decimal
}

// AddItem creates a BasketItem from the input, capping its quantity at the
// seller's per-product limit, and adds it to the basket.
func (s *BasketService) AddItem(ctx context.Context, basketID models.BasketID, in AddItemInput) (*models.BasketItem, error) {
	seller, err := models.NewSeller(in.SellerID, in.SellerName, in.SellerRating, in.ShippingLimit, in.ShippingCost)
	if err != nil {
		return nil, err
	}
	limit, err := seller.LimitForProduct(ctx, in.Name, s.limits)
	if err != nil {
		return nil, fmt.Errorf("look up product limit: %w", err)
	}
	quantity, err := models.NewQuantity(in.Count, limit, in.PricePerUnit)
	if err != nil {
		return nil, err
	}
	item, err := models.NewBasketItem(models.NewBasketItemID(), in.Name, in.ImageURL, quantity, seller)
	if err != nil {
		return nil, err
	}

	if _, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		return b.AddItem(item)
	}); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemCount changes the quantity of an existing item.
func (s *BasketService) UpdateItemCount(ctx context.Context, basketID models.BasketID, itemID models.BasketItemID, count int) error {
	_, err := s.mutateItem(ctx, basketID, itemID, func(b *models.Basket, item *models.BasketItem) error {
		return b.UpdateItemCount(item, count)
	})
	return err
}

// DeleteItem removes one item from the basket.
func (s *BasketService) DeleteItem(ctx context.Context, basketID models.BasketID, itemID models.BasketItemID) error {
	_, err := s.mutateItem(ctx, basketID, itemID, func(b *models.Basket, item *models.BasketItem) error {
		return b.DeleteItem(item)
	})
	return err
}

// DeleteAllItems clears the basket.
func (s *BasketService) DeleteAllItems(ctx context.Context, basketID models.BasketID) error {
	_, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		b.DeleteAll()
		return nil
	})
	return err
}

// ActivateItem brings a deactivated item back into pricing.
func (s *BasketService) ActivateItem(ctx context.Context, basketID models.BasketID, itemID models.BasketItemID) error {
	_, err := s.mutateItem(ctx, basketID, itemID, func(b *models.Basket, item *models.BasketItem) error {
		return b.ActivateItem(item)
	})
	return err
}

// DeactivateItem parks an item so it is skipped by pricing.
func (s *BasketService) DeactivateItem(ctx context.Context, basketID models.BasketID, itemID models.BasketItemID) error {
	_, err := s.mutateItem(ctx, basketID, itemID, func(b *models.Basket, item *models.BasketItem) error {
		return b.DeactivateItem(item)
	})
	return err
}

// CalculateShipping recomputes the amount still needed for free shipping
// from the given seller and returns it.
func (s *BasketService) CalculateShipping(ctx context.Context, basketID models.BasketID, sellerID models.SellerID) (decimal.Decimal, error) {
	basket, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		return b.CalculateShippingAmount(sellerID)
	})
	if err != nil {
		return decimal.Zero, err
	}
	left, ok := basket.ShippingAmountLeft(sellerID)
	if !ok {
		return decimal.Zero, basketdomain.Validationf("basket has no items from seller %s", sellerID)
	}
	return left, nil
}

// CalculateItemsAmount returns the sum of all active item subtotals.
func (s *BasketService) CalculateItemsAmount(ctx context.Context, basketID models.BasketID) (decimal.Decimal, error) {
	var amount decimal.Decimal
	_, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		amount = b.CalculateBasketItemsAmount()
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// CalculateTotal runs the full pricing pipeline (shipping, coupon, elite
// discount, tax) and returns the payable total.
func (s *BasketService) CalculateTotal(ctx context.Context, basketID models.BasketID) (decimal.Decimal, error) {
	var total decimal.Decimal
	basket, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		var calcErr error
		total, calcErr = b.CalculateTotalAmount(ctx, s.discounter)
		return calcErr
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.warmCache(basket)
	return total, nil
}

// AssignCustomer replaces the basket's customer.
func (s *BasketService) AssignCustomer(ctx context.Context, basketID models.BasketID, customerID models.CustomerID, isEliteMember bool) error {
	_, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		b.AssignCustomer(models.NewCustomer(customerID, isEliteMember))
		return nil
	})
	return err
}

// ApplyCoupon attaches an active coupon to the basket. Re-applying the
// coupon already on the basket is a no-op.
func (s *BasketService) ApplyCoupon(ctx context.Context, basketID models.BasketID, couponID models.CouponID) error {
	_, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		return b.ApplyCoupon(ctx, couponID, s.discounter)
	})
	return err
}

// RemoveCoupon detaches the basket's coupon. The CouponRemoved event
// cascades into a reprice, so the returned basket state already reflects
// the coupon-free total.
func (s *BasketService) RemoveCoupon(ctx context.Context, basketID models.BasketID) error {
	_, err := s.mutate(ctx, basketID, func(b *models.Basket) error {
		return b.RemoveCoupon()
	})
	return err
}

// mutate is the shared load-mutate-persist-dispatch sequence every write
// operation goes through.
func (s *BasketService) mutate(ctx context.Context, basketID models.BasketID, fn func(*models.Basket) error) (*models.Basket, error) {
	basket, err := s.baskets.GetByID(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}
	if err := fn(basket); err != nil {
		return nil, err
	}
	if err := s.baskets.Update(ctx, basket); err != nil {
		return nil, fmt.Errorf("save basket: %w", err)
	}
	if err := s.dispatcher.Dispatch(ctx, basket.PopEvents()); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return basket, nil
}

// mutateItem resolves the item first so operations fail with a validation
// error before touching the aggregate.
func (s *BasketService) mutateItem(ctx context.Context, basketID models.BasketID, itemID models.BasketItemID, fn func(*models.Basket, *models.BasketItem) error) (*models.Basket, error) {
	return s.mutate(ctx, basketID, func(b *models.Basket) error {
		item, ok := b.ItemByID(itemID)
		if !ok {
			return basketdomain.Validationf("item %s is not in the basket", itemID)
		}
		return fn(b, item)
	})
}

func (s *BasketService) warmCache(basket *models.Basket) {
	if s.cache == nil {
		return
	}
	summary := summarize(basket)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, summary); err != nil {
			s.log.Warn("basket cache warm failed", "basket_id", summary.ID, "error", err)
		}
	}()
}

func summarize(basket *models.Basket) *pkgcache.CachedBasket {
	_, hasCoupon := basket.CouponID()
	return &pkgcache.CachedBasket{
		ID:          basket.ID().UUID(),
		CustomerID:  basket.Customer().ID().UUID(),
		TotalAmount: basket.TotalAmount().String(),
		ItemCount:   basket.ItemCount(),
		HasCoupon:   hasCoupon,
		UpdatedAt:   time.Now().UTC(),
	}
}
