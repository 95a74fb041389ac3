package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/basketctx/pkg/errhttp"
	"github.com/ghuser/basketctx/pkg/httpx"
	pkgvalidator "github.com/ghuser/basketctx/pkg/validator"
	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// AmountResponse carries a single computed amount as a decimal string.
type AmountResponse struct {
	Amount string `json:"amount" example:"590"`
} // @name AmountResponse

// PostShippingHandler handles POST /baskets/{basketID}/sellers/{sellerID}/shipping requests.
type PostShippingHandler struct {
	svc *appsvcs.Services
}

// NewPostShippingHandler returns a PostShippingHandler backed by the given services.
func NewPostShippingHandler(svc *appsvcs.Services) *PostShippingHandler {
	return &PostShippingHandler{svc: svc}
}

// Execute recomputes how much more must be spent with the seller for free
// shipping and returns the remaining amount, zero when already reached.
//
//	@Summary		Calculate shipping amount left
//	@Tags			pricing
//	@Produce		json
//	@Param			basketID	path		string	true	"Basket ID"
//	@Param			sellerID	path		string	true	"Seller ID"
//	@Success		200			{object}	AmountResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/baskets/{basketID}/sellers/{sellerID}/shipping [post]
func (h *PostShippingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	sellerID, err := models.ParseSellerID(chi.URLParam(r, "sellerID"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid seller id"})
		return
	}

	left, err := h.svc.Basket.CalculateShipping(r.Context(), basketID, sellerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, AmountResponse{Amount: left.String()})
}

// PostItemsAmountHandler handles POST /baskets/{basketID}/items-amount requests.
type PostItemsAmountHandler struct {
	svc *appsvcs.Services
}

// NewPostItemsAmountHandler returns a PostItemsAmountHandler backed by the given services.
func NewPostItemsAmountHandler(svc *appsvcs.Services) *PostItemsAmountHandler {
	return &PostItemsAmountHandler{svc: svc}
}

// Execute returns the sum of all active item subtotals, before shipping,
// discounts and tax.
//
//	@Summary		Calculate items amount
//	@Tags			pricing
//	@Produce		json
//	@Param			basketID	path		string	true	"Basket ID"
//	@Success		200			{object}	AmountResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/baskets/{basketID}/items-amount [post]
func (h *PostItemsAmountHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}

	amount, err := h.svc.Basket.CalculateItemsAmount(r.Context(), basketID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, AmountResponse{Amount: amount.String()})
}

// PostTotalHandler handles POST /baskets/{basketID}/total requests.
type PostTotalHandler struct {
	svc *appsvcs.Services
}

// NewPostTotalHandler returns a PostTotalHandler backed by the given services.
func NewPostTotalHandler(svc *appsvcs.Services) *PostTotalHandler {
	return &PostTotalHandler{svc: svc}
}

// Execute runs the full pricing pipeline and returns the payable total.
//
//	@Summary		Calculate total
//	@Description	Items plus shipping, minus coupon and elite discounts, plus tax
//	@Tags			pricing
//	@Produce		json
//	@Param			basketID	path		string	true	"Basket ID"
//	@Success		200			{object}	AmountResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/baskets/{basketID}/total [post]
func (h *PostTotalHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}

	total, err := h.svc.Basket.CalculateTotal(r.Context(), basketID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, AmountResponse{Amount: total.String()})
}

// ApplyCouponRequest is the request body for PUT /baskets/{basketID}/coupon.
type ApplyCouponRequest struct {
	CouponID string `json:"coupon_id" validate:"required,uuid4" example:"7f1c9a3e-2b4d-4e5f-8a6b-1c2d3e4f5a6b"`
} // @name ApplyCouponRequest

// PutCouponHandler handles PUT /baskets/{basketID}/coupon requests.
type PutCouponHandler struct {
	svc *appsvcs.Services
}

// NewPutCouponHandler returns a PutCouponHandler backed by the given services.
func NewPutCouponHandler(svc *appsvcs.Services) *PutCouponHandler {
	return &PutCouponHandler{svc: svc}
}

// Execute attaches an active coupon to the basket. Re-applying the coupon
// already on the basket succeeds without change.
//
//	@Summary		Apply coupon
//	@Tags			pricing
//	@Accept			json
//	@Param			basketID	path	string				true	"Basket ID"
//	@Param			request		body	ApplyCouponRequest	true	"Coupon to apply"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/baskets/{basketID}/coupon [put]
func (h *PutCouponHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ApplyCouponRequest](w, r)
	if !ok {
		return
	}
	couponID, err := models.ParseCouponID(req.CouponID)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid coupon id"})
		return
	}

	if err := h.svc.Basket.ApplyCoupon(r.Context(), basketID, couponID); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCouponHandler handles DELETE /baskets/{basketID}/coupon requests.
type DeleteCouponHandler struct {
	svc *appsvcs.Services
}

// NewDeleteCouponHandler returns a DeleteCouponHandler backed by the given services.
func NewDeleteCouponHandler(svc *appsvcs.Services) *DeleteCouponHandler {
	return &DeleteCouponHandler{svc: svc}
}

// Execute detaches the basket's coupon and triggers a reprice.
//
//	@Summary		Remove coupon
//	@Tags			pricing
//	@Param			basketID	path	string	true	"Basket ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/baskets/{basketID}/coupon [delete]
func (h *DeleteCouponHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Basket.RemoveCoupon(r.Context(), basketID); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
