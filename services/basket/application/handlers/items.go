package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/basketctx/pkg/errhttp"
	"github.com/ghuser/basketctx/pkg/httpx"
	pkgvalidator "github.com/ghuser/basketctx/pkg/validator"
	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// AddItemRequest is the request body for POST /baskets/{basketID}/items.
type AddItemRequest struct {
	Name          string  `json:"name"           validate:"required,min=1,max=255" example:"Wireless Mouse"`
	ImageURL      string  `json:"image_url"      validate:"required,url"           example:"https://cdn.example.com/mouse.png"`
	Count         int     `json:"count"          validate:"required,min=1"         example:"2"`
	PricePerUnit  string  `json:"price_per_unit" validate:"required"               example:"24.90"`
	SellerID      string  `json:"seller_id"      validate:"required,uuid4"         example:"9b2d8e1a-4c3f-4f6e-9a1b-2c3d4e5f6a7b"`
	SellerName    string  `json:"seller_name"    validate:"required,min=1,max=255" example:"Acme Store"`
	SellerRating  float64 `json:"seller_rating"  validate:"min=0,max=5"            example:"4.6"`
	ShippingLimit string  `json:"shipping_limit" validate:"required"               example:"300"`
	ShippingCost  string  `json:"shipping_cost"  validate:"required"               example:"45"`
} // @name AddItemRequest

// PostItemHandler handles POST /baskets/{basketID}/items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute adds an item to the basket.
//
//	@Summary		Add item
//	@Description	Adds an item under its seller's group, capping the count at the seller's product limit
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			basketID	path		string			true	"Basket ID"
//	@Param			request		body		AddItemRequest	true	"Item to add"
//	@Success		201			{object}	BasketItemResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/baskets/{basketID}/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AddItemRequest](w, r)
	if !ok {
		return
	}

	sellerID, err := models.ParseSellerID(req.SellerID)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid seller id"})
		return
	}
	price, err := decimal.NewFromString(req.PricePerUnit)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid price per unit"})
		return
	}
	shippingLimit, err := decimal.NewFromString(req.ShippingLimit)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid shipping limit"})
		return
	}
	shippingCost, err := decimal.NewFromString(req.ShippingCost)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid shipping cost"})
		return
	}

	item, err := h.svc.Basket.AddItem(r.Context(), basketID, appsvcs.AddItemInput{
		Name:          req.Name,
		ImageURL:      req.ImageURL,
		Count:         req.Count,
		PricePerUnit:  price,
		SellerID:      sellerID,
		SellerName:    req.SellerName,
		SellerRating:  req.SellerRating,
		ShippingLimit: shippingLimit,
		ShippingCost:  shippingCost,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, itemResponse(item))
}

// UpdateItemCountRequest is the request body for PATCH /baskets/{basketID}/items/{itemID}.
type UpdateItemCountRequest struct {
	Count int `json:"count" validate:"required,min=2" example:"3"`
} // @name UpdateItemCountRequest

// PatchItemCountHandler handles PATCH /baskets/{basketID}/items/{itemID} requests.
type PatchItemCountHandler struct {
	svc *appsvcs.Services
}

// NewPatchItemCountHandler returns a PatchItemCountHandler backed by the given services.
func NewPatchItemCountHandler(svc *appsvcs.Services) *PatchItemCountHandler {
	return &PatchItemCountHandler{svc: svc}
}

// Execute updates the count of an item already in the basket.
//
//	@Summary		Update item count
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			basketID	path	string					true	"Basket ID"
//	@Param			itemID		path	string					true	"Item ID"
//	@Param			request		body	UpdateItemCountRequest	true	"New count"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/baskets/{basketID}/items/{itemID} [patch]
func (h *PatchItemCountHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateItemCountRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Basket.UpdateItemCount(r.Context(), basketID, itemID, req.Count); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItemHandler handles DELETE /baskets/{basketID}/items/{itemID} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute removes one item from the basket.
//
//	@Summary		Delete item
//	@Tags			items
//	@Param			basketID	path	string	true	"Basket ID"
//	@Param			itemID		path	string	true	"Item ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/baskets/{basketID}/items/{itemID} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Basket.DeleteItem(r.Context(), basketID, itemID); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllItemsHandler handles DELETE /baskets/{basketID}/items requests.
type DeleteAllItemsHandler struct {
	svc *appsvcs.Services
}

// NewDeleteAllItemsHandler returns a DeleteAllItemsHandler backed by the given services.
func NewDeleteAllItemsHandler(svc *appsvcs.Services) *DeleteAllItemsHandler {
	return &DeleteAllItemsHandler{svc: svc}
}

// Execute clears the basket.
//
//	@Summary		Delete all items
//	@Tags			items
//	@Param			basketID	path	string	true	"Basket ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/baskets/{basketID}/items [delete]
func (h *DeleteAllItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Basket.DeleteAllItems(r.Context(), basketID); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostItemActivationHandler handles item activate/deactivate requests.
type PostItemActivationHandler struct {
	svc      *appsvcs.Services
	activate bool
}

// NewPostItemActivateHandler returns a handler for POST /baskets/{basketID}/items/{itemID}/activate.
func NewPostItemActivateHandler(svc *appsvcs.Services) *PostItemActivationHandler {
	return &PostItemActivationHandler{svc: svc, activate: true}
}

// NewPostItemDeactivateHandler returns a handler for POST /baskets/{basketID}/items/{itemID}/deactivate.
func NewPostItemDeactivateHandler(svc *appsvcs.Services) *PostItemActivationHandler {
	return &PostItemActivationHandler{svc: svc, activate: false}
}

// Execute flips an item's active state.
//
//	@Summary		Activate or deactivate item
//	@Description	Deactivated items stay in the basket but are skipped by pricing
//	@Tags			items
//	@Param			basketID	path	string	true	"Basket ID"
//	@Param			itemID		path	string	true	"Item ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/baskets/{basketID}/items/{itemID}/activate [post]
func (h *PostItemActivationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	var err error
	if h.activate {
		err = h.svc.Basket.ActivateItem(r.Context(), basketID, itemID)
	} else {
		err = h.svc.Basket.DeactivateItem(r.Context(), basketID, itemID)
	}
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
