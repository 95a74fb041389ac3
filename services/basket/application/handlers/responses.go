package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/basketctx/pkg/httpx"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"basket not found"`
} // @name ErrorResponse

// BasketItemResponse is the wire form of one basket item.
type BasketItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url"`
	Count        int       `json:"count"`
	CountLimit   int       `json:"count_limit"`
	PricePerUnit string    `json:"price_per_unit"`
	TotalPrice   string    `json:"total_price"`
	IsActive     bool      `json:"is_active"`
} // @name BasketItemResponse

// SellerGroupResponse is one seller's slice of the basket.
type SellerGroupResponse struct {
	SellerID           uuid.UUID            `json:"seller_id"`
	SellerName         string               `json:"seller_name"`
	SellerRating       float64              `json:"seller_rating"`
	ShippingLimit      string               `json:"shipping_limit"`
	ShippingCost       string               `json:"shipping_cost"`
	ShippingAmountLeft string               `json:"shipping_amount_left"`
	Items              []BasketItemResponse `json:"items"`
} // @name SellerGroupResponse

// BasketResponse is the full basket aggregate on the wire.
type BasketResponse struct {
	ID            uuid.UUID             `json:"id"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	IsEliteMember bool                  `json:"is_elite_member"`
	TaxPercentage string                `json:"tax_percentage"`
	TotalAmount   string                `json:"total_amount"`
	CouponID      *uuid.UUID            `json:"coupon_id,omitempty"`
	Groups        []SellerGroupResponse `json:"groups"`
} // @name BasketResponse

// CouponResponse is the coupon aggregate on the wire.
type CouponResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	AmountKind string    `json:"amount_kind"`
	Value      string    `json:"value"`
	ValidFrom  string    `json:"valid_from"`
	ValidUntil string    `json:"valid_until"`
	IsActive   bool      `json:"is_active"`
} // @name CouponResponse

func basketResponse(b *models.Basket) BasketResponse {
	resp := BasketResponse{
		ID:            b.ID().UUID(),
		CustomerID:    b.Customer().ID().UUID(),
		IsEliteMember: b.Customer().IsEliteMember(),
		TaxPercentage: b.TaxPercentage().String(),
		TotalAmount:   b.TotalAmount().String(),
		Groups:        []SellerGroupResponse{},
	}
	if couponID, ok := b.CouponID(); ok {
		v := couponID.UUID()
		resp.CouponID = &v
	}
	for _, g := range b.GroupStates() {
		group := SellerGroupResponse{
			SellerID:           g.Seller.ID().UUID(),
			SellerName:         g.Seller.Name(),
			SellerRating:       g.Seller.Rating(),
			ShippingLimit:      g.Seller.ShippingLimit().String(),
			ShippingCost:       g.Seller.ShippingCost().String(),
			ShippingAmountLeft: g.ShippingAmountLeft.String(),
			Items:              make([]BasketItemResponse, 0, len(g.Items)),
		}
		for _, item := range g.Items {
			group.Items = append(group.Items, itemResponse(item))
		}
		resp.Groups = append(resp.Groups, group)
	}
	return resp
}

func itemResponse(item *models.BasketItem) BasketItemResponse {
	q := item.Quantity()
	return BasketItemResponse{
		ID:           item.ID().UUID(),
		Name:         item.Name(),
		ImageURL:     item.ImageURL(),
		Count:        q.Value(),
		CountLimit:   q.Limit(),
		PricePerUnit: q.PricePerUnit().String(),
		TotalPrice:   q.TotalPrice().String(),
		IsActive:     item.IsActive(),
	}
}

func couponResponse(c *models.Coupon) CouponResponse {
	return CouponResponse{
		ID:         c.ID().UUID(),
		Code:       c.Code(),
		AmountKind: string(c.Amount().Kind()),
		Value:      c.Amount().Value().String(),
		ValidFrom:  c.ValidityPeriod().Start().UTC().Format(time.RFC3339),
		ValidUntil: c.ValidityPeriod().End().UTC().Format(time.RFC3339),
		IsActive:   c.IsActive(),
	}
}

// basketIDParam parses the {basketID} path parameter, writing a 400 on failure.
func basketIDParam(w http.ResponseWriter, r *http.Request) (models.BasketID, bool) {
	id, err := models.ParseBasketID(chi.URLParam(r, "basketID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid basket id"})
		return models.BasketID{}, false
	}
	return id, true
}

// itemIDParam parses the {itemID} path parameter, writing a 400 on failure.
func itemIDParam(w http.ResponseWriter, r *http.Request) (models.BasketItemID, bool) {
	id, err := models.ParseBasketItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
		return models.BasketItemID{}, false
	}
	return id, true
}

// couponIDParam parses the {couponID} path parameter, writing a 400 on failure.
func couponIDParam(w http.ResponseWriter, r *http.Request) (models.CouponID, bool) {
	id, err := models.ParseCouponID(chi.URLParam(r, "couponID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid coupon id"})
		return models.CouponID{}, false
	}
	return id, true
}
