package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/basketctx/pkg/database"
	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// defaultProductLimit applies when the seller carries no row for the product.
const defaultProductLimit = 10

// SellerLimitLookup implements models.SellerLimitService against the
// seller_product_limits table.
type SellerLimitLookup struct {
	db *database.Database
}

// NewSellerLimitLookup returns a SellerLimitLookup backed by the given pool.
func NewSellerLimitLookup(db *database.Database) *SellerLimitLookup {
	return &SellerLimitLookup{db: db}
}

// LimitForProduct returns the per-order unit limit the seller enforces for
// the named product, falling back to defaultProductLimit when the seller has
// not configured one.
func (l *SellerLimitLookup) LimitForProduct(ctx context.Context, sellerID models.SellerID, productName string) (int, error) {
	if productName == "" {
		return 0, basketdomain.Validationf("product name must not be blank")
	}

	var limit int
	err := l.db.DB().QueryRowContext(ctx, `
		SELECT max_per_order FROM seller_product_limits
		WHERE seller_id = $1 AND product_name = $2`,
		sellerID.UUID(), productName,
	).Scan(&limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultProductLimit, nil
		}
		return 0, fmt.Errorf("query seller limit: %w", err)
	}
	return limit, nil
}
