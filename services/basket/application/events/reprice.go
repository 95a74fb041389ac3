package events

import (
	"context"
	"fmt"

	"github.com/ghuser/basketctx/pkg/logger"
	"github.com/ghuser/basketctx/services/basket/domain/dispatch"
	domainevents "github.com/ghuser/basketctx/services/basket/domain/events"
	"github.com/ghuser/basketctx/services/basket/domain/models"
	"github.com/ghuser/basketctx/services/basket/domain/repositories"
)

// RepriceOnCouponRemoved recomputes a basket's total when its coupon is
// removed. The recomputation raises TotalAmountCalculated on the basket,
// which the handler returns so the dispatcher delivers it in turn.
type RepriceOnCouponRemoved struct {
	baskets    repositories.BasketRepository
	discounter models.CouponDiscounter
	log        logger.Logger
}

// NewRepriceOnCouponRemoved returns the cascade handler.
func NewRepriceOnCouponRemoved(
	baskets repositories.BasketRepository,
	discounter models.CouponDiscounter,
	log logger.Logger,
) *RepriceOnCouponRemoved {
	return &RepriceOnCouponRemoved{baskets: baskets, discounter: discounter, log: log}
}

// Handle reloads the basket, recomputes the total without the coupon and
// persists the result. The events the recomputation raised are returned as
// the cascade.
func (h *RepriceOnCouponRemoved) Handle(ctx context.Context, e domainevents.Event) ([]domainevents.Event, error) {
	basketID, err := models.BasketIDFromUUID(e.AggregateID())
	if err != nil {
		return nil, fmt.Errorf("reprice: %w", err)
	}

	basket, err := h.baskets.GetByID(ctx, basketID)
	if err != nil {
		return nil, fmt.Errorf("reprice basket %s: %w", basketID, err)
	}
	if basket.ItemCount() == 0 {
		return nil, nil
	}

	total, err := basket.CalculateTotalAmount(ctx, h.discounter)
	if err != nil {
		return nil, fmt.Errorf("reprice basket %s: %w", basketID, err)
	}
	if err := h.baskets.Update(ctx, basket); err != nil {
		return nil, fmt.Errorf("reprice basket %s: %w", basketID, err)
	}

	h.log.InfoContext(ctx, "basket repriced after coupon removal",
		"basket_id", basketID, "total", total)
	return basket.PopEvents(), nil
}

// Register wires the handler into the dispatch table.
func (h *RepriceOnCouponRemoved) Register(r *dispatch.Registry) {
	r.Register(domainevents.TypeCouponRemoved, h)
}
