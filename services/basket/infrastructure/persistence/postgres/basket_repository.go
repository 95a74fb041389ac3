// Package postgres implements the basket context repositories against
// PostgreSQL. Aggregate internals (seller groups, items) are persisted as a
// jsonb document on the basket row; scalar columns cover everything queried
// relationally.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ghuser/basketctx/pkg/database"
	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

const uniqueViolation = "23505"

// BasketRepository implements repositories.BasketRepository.
type BasketRepository struct {
	db *database.Database
}

// NewBasketRepository returns a BasketRepository backed by the given pool.
func NewBasketRepository(db *database.Database) *BasketRepository {
	return &BasketRepository{db: db}
}

// sellerRecord is the jsonb shape of one seller.
type sellerRecord struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Rating        float64         `json:"rating"`
	ShippingLimit decimal.Decimal `json:"shipping_limit"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
}

// itemRecord is the jsonb shape of one basket item.
type itemRecord struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url"`
	Count        int             `json:"count"`
	Limit        int             `json:"limit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	IsActive     bool            `json:"is_active"`
}

// groupRecord is the jsonb shape of one seller group, order-preserving.
type groupRecord struct {
	Seller             sellerRecord    `json:"seller"`
	ShippingAmountLeft decimal.Decimal `json:"shipping_amount_left"`
	Items              []itemRecord    `json:"items"`
}

// Add persists a new basket. The unique index on customer_id maps to
// ErrBasketAlreadyExists.
func (r *BasketRepository) Add(ctx context.Context, basket *models.Basket) error {
	groups, err := marshalGroups(basket.GroupStates())
	if err != nil {
		return err
	}
	couponID := couponIDValue(basket)

	_, err = r.db.DB().ExecContext(ctx, `
		INSERT INTO baskets (id, customer_id, is_elite_member, tax_percentage, coupon_id, total_amount, seller_groups)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		basket.ID().UUID(),
		basket.Customer().ID().UUID(),
		basket.Customer().IsEliteMember(),
		basket.TaxPercentage().String(),
		couponID,
		basket.TotalAmount().String(),
		groups,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return basketdomain.ErrBasketAlreadyExists
		}
		return fmt.Errorf("insert basket: %w", err)
	}
	return nil
}

// Update persists the current state of an existing basket.
func (r *BasketRepository) Update(ctx context.Context, basket *models.Basket) error {
	groups, err := marshalGroups(basket.GroupStates())
	if err != nil {
		return err
	}

	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE baskets
		SET customer_id = $2, is_elite_member = $3, coupon_id = $4,
		    total_amount = $5, seller_groups = $6, updated_at = now()
		WHERE id = $1`,
		basket.ID().UUID(),
		basket.Customer().ID().UUID(),
		basket.Customer().IsEliteMember(),
		couponIDValue(basket),
		basket.TotalAmount().String(),
		groups,
	)
	if err != nil {
		return fmt.Errorf("update basket: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return basketdomain.ErrBasketNotFound
	}
	return nil
}

// GetByID loads and rehydrates a basket.
func (r *BasketRepository) GetByID(ctx context.Context, id models.BasketID) (*models.Basket, error) {
	var (
		customerID    uuid.UUID
		isElite       bool
		taxPercentage string
		couponID      uuid.NullUUID
		totalAmount   string
		groupsJSON    []byte
	)
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT customer_id, is_elite_member, tax_percentage, coupon_id, total_amount, seller_groups
		FROM baskets WHERE id = $1`,
		id.UUID(),
	).Scan(&customerID, &isElite, &taxPercentage, &couponID, &totalAmount, &groupsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, basketdomain.ErrBasketNotFound
		}
		return nil, fmt.Errorf("query basket: %w", err)
	}

	return rowToBasket(id, customerID, isElite, taxPercentage, couponID, totalAmount, groupsJSON)
}

// ExistsByCustomerID reports whether the customer already owns a basket.
func (r *BasketRepository) ExistsByCustomerID(ctx context.Context, customerID models.CustomerID) (bool, error) {
	var exists bool
	err := r.db.DB().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM baskets WHERE customer_id = $1)`,
		customerID.UUID(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check basket exists: %w", err)
	}
	return exists, nil
}

func marshalGroups(states []models.GroupState) ([]byte, error) {
	records := make([]groupRecord, len(states))
	for i, gs := range states {
		items := make([]itemRecord, len(gs.Items))
		for j, it := range gs.Items {
			items[j] = itemRecord{
				ID:           it.ID().UUID(),
				Name:         it.Name(),
				ImageURL:     it.ImageURL(),
				Count:        it.Quantity().Value(),
				Limit:        it.Quantity().Limit(),
				PricePerUnit: it.Quantity().PricePerUnit(),
				IsActive:     it.IsActive(),
			}
		}
		records[i] = groupRecord{
			Seller: sellerRecord{
				ID:            gs.Seller.ID().UUID(),
				Name:          gs.Seller.Name(),
				Rating:        gs.Seller.Rating(),
				ShippingLimit: gs.Seller.ShippingLimit(),
				ShippingCost:  gs.Seller.ShippingCost(),
			},
			ShippingAmountLeft: gs.ShippingAmountLeft,
			Items:              items,
		}
	}
	out, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal seller groups: %w", err)
	}
	return out, nil
}

func rowToBasket(
	id models.BasketID,
	customerID uuid.UUID,
	isElite bool,
	taxPercentage string,
	couponID uuid.NullUUID,
	totalAmount string,
	groupsJSON []byte,
) (*models.Basket, error) {
	tax, err := decimal.NewFromString(taxPercentage)
	if err != nil {
		return nil, fmt.Errorf("parse tax percentage: %w", err)
	}
	total, err := decimal.NewFromString(totalAmount)
	if err != nil {
		return nil, fmt.Errorf("parse total amount: %w", err)
	}

	var records []groupRecord
	if err := json.Unmarshal(groupsJSON, &records); err != nil {
		return nil, fmt.Errorf("unmarshal seller groups: %w", err)
	}

	groups := make([]models.GroupState, len(records))
	for i, rec := range records {
		sellerID, err := models.ParseSellerID(rec.Seller.ID.String())
		if err != nil {
			return nil, err
		}
		seller, err := models.NewSeller(sellerID, rec.Seller.Name, rec.Seller.Rating,
			rec.Seller.ShippingLimit, rec.Seller.ShippingCost)
		if err != nil {
			return nil, err
		}

		items := make([]*models.BasketItem, len(rec.Items))
		for j, ir := range rec.Items {
			itemID, err := models.ParseBasketItemID(ir.ID.String())
			if err != nil {
				return nil, err
			}
			quantity, err := models.NewQuantity(ir.Count, ir.Limit, ir.PricePerUnit)
			if err != nil {
				return nil, err
			}
			item, err := models.RehydrateBasketItem(itemID, ir.Name, ir.ImageURL, quantity, seller, ir.IsActive)
			if err != nil {
				return nil, err
			}
			items[j] = item
		}

		groups[i] = models.GroupState{
			Seller:             seller,
			Items:              items,
			ShippingAmountLeft: rec.ShippingAmountLeft,
		}
	}

	cid, err := models.ParseCustomerID(customerID.String())
	if err != nil {
		return nil, err
	}
	customer := models.NewCustomer(cid, isElite)

	var coupon *models.CouponID
	if couponID.Valid {
		c, err := models.CouponIDFromUUID(couponID.UUID)
		if err != nil {
			return nil, err
		}
		coupon = &c
	}

	return models.RehydrateBasket(id, tax, customer, coupon, total, groups), nil
}

// couponIDValue returns the applied coupon id as a nullable column value.
func couponIDValue(basket *models.Basket) any {
	if cid, ok := basket.CouponID(); ok {
		return cid.UUID()
	}
	return nil
}
