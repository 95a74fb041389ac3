package repositories

import (
	"context"

	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// BasketRepository is the persistence interface for the Basket aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Deletion of a basket is a storage concern outside the domain's lifecycle.
type BasketRepository interface {
	// GetByID loads a basket. Returns domain.ErrBasketNotFound when missing.
	GetByID(ctx context.Context, id models.BasketID) (*models.Basket, error)

	// Add persists a new basket. Returns domain.ErrBasketAlreadyExists when
	// the customer already has one.
	Add(ctx context.Context, basket *models.Basket) error

	// Update persists the current state of an existing basket.
	Update(ctx context.Context, basket *models.Basket) error

	// ExistsByCustomerID reports whether the customer already owns a basket.
	ExistsByCustomerID(ctx context.Context, customerID models.CustomerID) (bool, error)
}
