package models

import (
	"regexp"
	"strings"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

// imageURLPattern accepts http(s) URLs ending in a common image extension.
var imageURLPattern = regexp.MustCompile(`(?i)^https?://\S+\.(png|jpe?g|gif|webp|svg)$`)

// minItemCount is the exclusive lower bound UpdateCount enforces. A count of
// exactly 1 is valid at creation but rejected on update; this asymmetry is
// intentional product behavior, not a bug.
const minItemCount = 1

// BasketItem is a product line owned by a Basket. Identity is the id;
// only the quantity and the active flag change after construction.
type BasketItem struct {
	id       BasketItemID
	name     string
	imageURL string
	quantity Quantity
	seller   Seller
	isActive bool
}

// NewBasketItem constructs an active BasketItem. A zero id is replaced with
// a generated one. The name must be non-blank and the image URL must be an
// http(s) link to an image file.
func NewBasketItem(id BasketItemID, name, imageURL string, quantity Quantity, seller Seller) (*BasketItem, error) {
	if id.IsZero() {
		id = NewBasketItemID()
	}
	if strings.TrimSpace(name) == "" {
		return nil, basketdomain.Validationf("basket item name must not be blank")
	}
	if !imageURLPattern.MatchString(imageURL) {
		return nil, basketdomain.Validationf("basket item image url %q is not a valid http(s) image link", imageURL)
	}
	return &BasketItem{
		id:       id,
		name:     name,
		imageURL: imageURL,
		quantity: quantity,
		seller:   seller,
		isActive: true,
	}, nil
}

// ID returns the item identifier.
func (i *BasketItem) ID() BasketItemID { return i.id }

// Name returns the product name.
func (i *BasketItem) Name() string { return i.name }

// ImageURL returns the product image link.
func (i *BasketItem) ImageURL() string { return i.imageURL }

// Quantity returns the current quantity value object.
func (i *BasketItem) Quantity() Quantity { return i.quantity }

// Seller returns the seller the item belongs to. The reference never changes.
func (i *BasketItem) Seller() Seller { return i.seller }

// IsActive reports whether the item counts toward pricing.
func (i *BasketItem) IsActive() bool { return i.isActive }

// UpdateCount replaces the quantity value. The new count must be strictly
// greater than minItemCount and within the quantity limit.
func (i *BasketItem) UpdateCount(count int) error {
	if count <= minItemCount {
		return basketdomain.Validationf("item count must be greater than %d, got %d", minItemCount, count)
	}
	q, err := i.quantity.WithValue(count)
	if err != nil {
		return err
	}
	i.quantity = q
	return nil
}

func (i *BasketItem) deactivate() { i.isActive = false }
func (i *BasketItem) activate()   { i.isActive = true }

// RehydrateBasketItem rebuilds an item from stored state, restoring the
// persisted active flag instead of defaulting to active.
func RehydrateBasketItem(id BasketItemID, name, imageURL string, quantity Quantity, seller Seller, isActive bool) (*BasketItem, error) {
	item, err := NewBasketItem(id, name, imageURL, quantity, seller)
	if err != nil {
		return nil, err
	}
	item.isActive = isActive
	return item, nil
}
