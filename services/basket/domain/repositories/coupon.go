package repositories

import (
	"context"

	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// CouponRepository is the persistence interface for the Coupon aggregate.
type CouponRepository interface {
	// GetByID loads a coupon. Returns domain.ErrCouponNotFound when missing.
	GetByID(ctx context.Context, id models.CouponID) (*models.Coupon, error)

	// Add persists a new coupon.
	Add(ctx context.Context, coupon *models.Coupon) error

	// Update persists the current state of an existing coupon.
	Update(ctx context.Context, coupon *models.Coupon) error

	// ListExpiredActive returns active coupons whose validity period ended
	// before now. Used by the scheduled expiry workflow.
	ListExpiredActive(ctx context.Context, limit int) ([]*models.Coupon, error)
}
