package services

import (
	"fmt"

	"github.com/ghuser/basketctx/pkg/app"
	pkgcache "github.com/ghuser/basketctx/pkg/cache"
	appevents "github.com/ghuser/basketctx/services/basket/application/events"
	"github.com/ghuser/basketctx/services/basket/domain/dispatch"
	"github.com/ghuser/basketctx/services/basket/infrastructure/persistence/postgres"
	infraservices "github.com/ghuser/basketctx/services/basket/infrastructure/services"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations and
// builds the event dispatch table at composition time, so the full set of
// event routes is fixed before the first request.
type Services struct {
	Basket *BasketService
	Coupon *CouponService
}

// New wires all basket application services with infrastructure from the
// Application container.
func New(a *app.Application) (*Services, error) {
	baskets := postgres.NewBasketRepository(a.Db)
	coupons := postgres.NewCouponRepository(a.Db)
	limits := infraservices.NewSellerLimitLookup(a.Db)

	convention, err := infraservices.ParsePercentConvention(a.Config.CouponPercentConvention)
	if err != nil {
		return nil, fmt.Errorf("configure discounter: %w", err)
	}
	discounter := infraservices.NewCouponDiscounter(coupons, convention)

	registry := dispatch.NewRegistry()
	publisher := appevents.NewIntegrationPublisher(a.EventBus, a.Logger)
	publisher.Register(registry)
	reprice := appevents.NewRepriceOnCouponRemoved(baskets, discounter, a.Logger)
	reprice.Register(registry)
	dispatcher := dispatch.NewDispatcher(registry)

	var basketCache *pkgcache.BasketCache
	if a.Redis != nil {
		basketCache = pkgcache.NewBasketCache(a.Redis)
	}

	return &Services{
		Basket: NewBasketService(baskets, limits, discounter, dispatcher, basketCache, a.Logger),
		Coupon: NewCouponService(coupons, dispatcher, a.Logger),
	}, nil
}
