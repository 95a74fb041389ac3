package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/basketctx/pkg/logger"
	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/dispatch"
	"github.com/ghuser/basketctx/services/basket/domain/models"
	"github.com/ghuser/basketctx/services/basket/domain/repositories"
)

// CouponService manages the coupon lifecycle: create, activate within the
// validity window, deactivate, and the bulk expiry sweep the worker runs.
type CouponService struct {
	coupons    repositories.CouponRepository
	dispatcher *dispatch.Dispatcher
	log        logger.Logger
}

// NewCouponService wires a CouponService.
func NewCouponService(coupons repositories.CouponRepository, dispatcher *dispatch.Dispatcher, log logger.Logger) *CouponService {
	return &CouponService{coupons: coupons, dispatcher: dispatcher, log: log}
}

// CreateCouponInput carries the fields needed to mint a coupon.
type CreateCouponInput struct {
	Code       string
	AmountKind string // "fix" or "percentage"
	Value      decimal.Decimal
	ValidFrom  time.Time
	ValidUntil time.Time
}

// Create mints a new active coupon.
func (s *CouponService) Create(ctx context.Context, in CreateCouponInput) (*models.Coupon, error) {
	var amount models.Amount
	var err error
	switch models.AmountKind(in.AmountKind) {
	case models.AmountFix:
		amount, err = models.FixAmount(in.Value)
	case models.AmountPercentage:
		amount, err = models.PercentageAmount(in.Value)
	default:
		return nil, basketdomain.Validationf("unknown amount kind %q", in.AmountKind)
	}
	if err != nil {
		return nil, err
	}

	period, err := models.NewDateRange(in.ValidFrom, in.ValidUntil)
	if err != nil {
		return nil, err
	}
	coupon, err := models.NewCoupon(in.Code, amount, period)
	if err != nil {
		return nil, err
	}

	if err := s.coupons.Add(ctx, coupon); err != nil {
		return nil, fmt.Errorf("save coupon: %w", err)
	}
	if err := s.dispatcher.Dispatch(ctx, coupon.PopEvents()); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	return coupon, nil
}

// Get loads a coupon by id.
func (s *CouponService) Get(ctx context.Context, couponID models.CouponID) (*models.Coupon, error) {
	coupon, err := s.coupons.GetByID(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, nil
}

// Activate turns an inactive coupon back on, provided now falls inside its
// validity period.
func (s *CouponService) Activate(ctx context.Context, couponID models.CouponID) error {
	return s.mutate(ctx, couponID, func(c *models.Coupon) error {
		return c.Activate(time.Now().UTC())
	})
}

// Deactivate turns an active coupon off.
func (s *CouponService) Deactivate(ctx context.Context, couponID models.CouponID) error {
	return s.mutate(ctx, couponID, func(c *models.Coupon) error {
		return c.Deactivate()
	})
}

// DeactivateExpired sweeps coupons whose validity period has lapsed while
// still marked active, deactivating at most limit of them. It returns how
// many were deactivated. The worker's expiry workflow calls this on a
// schedule.
func (s *CouponService) DeactivateExpired(ctx context.Context, limit int) (int, error) {
	expired, err := s.coupons.ListExpiredActive(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list expired coupons: %w", err)
	}

	deactivated := 0
	for _, coupon := range expired {
		if err := coupon.Deactivate(); err != nil {
			return deactivated, fmt.Errorf("deactivate coupon %s: %w", coupon.ID(), err)
		}
		if err := s.coupons.Update(ctx, coupon); err != nil {
			return deactivated, fmt.Errorf("save coupon %s: %w", coupon.ID(), err)
		}
		if err := s.dispatcher.Dispatch(ctx, coupon.PopEvents()); err != nil {
			return deactivated, fmt.Errorf("dispatch: %w", err)
		}
		deactivated++
	}
	if deactivated > 0 {
		s.log.InfoContext(ctx, "expired coupons deactivated", "count", deactivated)
	}
	return deactivated, nil
}

func (s *CouponService) mutate(ctx context.Context, couponID models.CouponID, fn func(*models.Coupon) error) error {
	coupon, err := s.coupons.GetByID(ctx, couponID)
	if err != nil {
		return fmt.Errorf("get coupon: %w", err)
	}
	if err := fn(coupon); err != nil {
		return err
	}
	if err := s.coupons.Update(ctx, coupon); err != nil {
		return fmt.Errorf("save coupon: %w", err)
	}
	if err := s.dispatcher.Dispatch(ctx, coupon.PopEvents()); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}
