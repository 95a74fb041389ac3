package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/basketctx/pkg/database"
	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// CouponRepository implements repositories.CouponRepository.
type CouponRepository struct {
	db *database.Database
}

// NewCouponRepository returns a CouponRepository backed by the given pool.
func NewCouponRepository(db *database.Database) *CouponRepository {
	return &CouponRepository{db: db}
}

// Add persists a new coupon.
func (r *CouponRepository) Add(ctx context.Context, coupon *models.Coupon) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO coupons (id, code, amount_value, amount_kind, valid_from, valid_until, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		coupon.ID().UUID(),
		coupon.Code(),
		coupon.Amount().Value().String(),
		string(coupon.Amount().Kind()),
		coupon.ValidityPeriod().Start(),
		coupon.ValidityPeriod().End(),
		coupon.IsActive(),
	)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// Update persists the mutable state of an existing coupon.
func (r *CouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE coupons SET is_active = $2, updated_at = now() WHERE id = $1`,
		coupon.ID().UUID(),
		coupon.IsActive(),
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return basketdomain.ErrCouponNotFound
	}
	return nil
}

// GetByID loads and rehydrates a coupon.
func (r *CouponRepository) GetByID(ctx context.Context, id models.CouponID) (*models.Coupon, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT code, amount_value, amount_kind, valid_from, valid_until, is_active
		FROM coupons WHERE id = $1`,
		id.UUID(),
	)
	coupon, err := scanCoupon(id, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, basketdomain.ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

// ListExpiredActive returns up to limit active coupons whose validity period
// ended in the past. Consumed by the scheduled expiry workflow.
func (r *CouponRepository) ListExpiredActive(ctx context.Context, limit int) ([]*models.Coupon, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, code, amount_value, amount_kind, valid_from, valid_until, is_active
		FROM coupons
		WHERE is_active AND valid_until < now()
		ORDER BY valid_until
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query expired coupons: %w", err)
	}
	defer rows.Close()

	var out []*models.Coupon
	for rows.Next() {
		var (
			idStr       string
			code        string
			amountValue string
			amountKind  string
			validFrom   time.Time
			validUntil  time.Time
			isActive    bool
		)
		if err := rows.Scan(&idStr, &code, &amountValue, &amountKind, &validFrom, &validUntil, &isActive); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		id, err := models.ParseCouponID(idStr)
		if err != nil {
			return nil, err
		}
		coupon, err := buildCoupon(id, code, amountValue, amountKind, validFrom, validUntil, isActive)
		if err != nil {
			return nil, err
		}
		out = append(out, coupon)
	}
	return out, rows.Err()
}

func scanCoupon(id models.CouponID, row *sql.Row) (*models.Coupon, error) {
	var (
		code        string
		amountValue string
		amountKind  string
		validFrom   time.Time
		validUntil  time.Time
		isActive    bool
	)
	if err := row.Scan(&code, &amountValue, &amountKind, &validFrom, &validUntil, &isActive); err != nil {
		return nil, err
	}
	return buildCoupon(id, code, amountValue, amountKind, validFrom, validUntil, isActive)
}

func buildCoupon(id models.CouponID, code, amountValue, amountKind string, validFrom, validUntil time.Time, isActive bool) (*models.Coupon, error) {
	value, err := decimal.NewFromString(amountValue)
	if err != nil {
		return nil, fmt.Errorf("parse coupon amount: %w", err)
	}

	var amount models.Amount
	switch models.AmountKind(amountKind) {
	case models.AmountPercentage:
		amount, err = models.PercentageAmount(value)
	default:
		amount, err = models.FixAmount(value)
	}
	if err != nil {
		return nil, err
	}

	period, err := models.NewDateRange(validFrom, validUntil)
	if err != nil {
		return nil, err
	}

	return models.RehydrateCoupon(id, code, amount, period, isActive), nil
}
