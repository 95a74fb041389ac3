package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/basketctx/pkg/errhttp"
	"github.com/ghuser/basketctx/pkg/httpx"
	pkgvalidator "github.com/ghuser/basketctx/pkg/validator"
	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
)

// CreateCouponRequest is the request body for POST /coupons.
type CreateCouponRequest struct {
	Code       string `json:"code"        validate:"required,min=6,max=10"             example:"SUMMER24"`
	AmountKind string `json:"amount_kind" validate:"required,oneof=fix percentage"     example:"percentage"`
	Value      string `json:"value"       validate:"required"                          example:"10"`
	ValidFrom  string `json:"valid_from"  validate:"required"                          example:"2026-06-01T00:00:00Z"`
	ValidUntil string `json:"valid_until" validate:"required"                          example:"2026-09-01T00:00:00Z"`
} // @name CreateCouponRequest

// PostCouponHandler handles POST /coupons requests.
type PostCouponHandler struct {
	svc *appsvcs.Services
}

// NewPostCouponHandler returns a PostCouponHandler backed by the given services.
func NewPostCouponHandler(svc *appsvcs.Services) *PostCouponHandler {
	return &PostCouponHandler{svc: svc}
}

// Execute mints a new active coupon.
//
//	@Summary		Create coupon
//	@Tags			coupons
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateCouponRequest	true	"Coupon creation request"
//	@Success		201		{object}	CouponResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/coupons [post]
func (h *PostCouponHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateCouponRequest](w, r)
	if !ok {
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid value"})
		return
	}
	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid valid_from"})
		return
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid valid_until"})
		return
	}

	coupon, err := h.svc.Coupon.Create(r.Context(), appsvcs.CreateCouponInput{
		Code:       req.Code,
		AmountKind: req.AmountKind,
		Value:      value,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, couponResponse(coupon))
}

// GetCouponHandler handles GET /coupons/{couponID} requests.
type GetCouponHandler struct {
	svc *appsvcs.Services
}

// NewGetCouponHandler returns a GetCouponHandler backed by the given services.
func NewGetCouponHandler(svc *appsvcs.Services) *GetCouponHandler {
	return &GetCouponHandler{svc: svc}
}

// Execute returns a coupon by id.
//
//	@Summary		Get coupon
//	@Tags			coupons
//	@Produce		json
//	@Param			couponID	path		string	true	"Coupon ID"
//	@Success		200			{object}	CouponResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/coupons/{couponID} [get]
func (h *GetCouponHandler) Execute(w http.ResponseWriter, r *http.Request) {
	couponID, ok := couponIDParam(w, r)
	if !ok {
		return
	}

	coupon, err := h.svc.Coupon.Get(r.Context(), couponID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, couponResponse(coupon))
}

// PostCouponActivationHandler handles coupon activate/deactivate requests.
type PostCouponActivationHandler struct {
	svc      *appsvcs.Services
	activate bool
}

// NewPostCouponActivateHandler returns a handler for POST /coupons/{couponID}/activate.
func NewPostCouponActivateHandler(svc *appsvcs.Services) *PostCouponActivationHandler {
	return &PostCouponActivationHandler{svc: svc, activate: true}
}

// NewPostCouponDeactivateHandler returns a handler for POST /coupons/{couponID}/deactivate.
func NewPostCouponDeactivateHandler(svc *appsvcs.Services) *PostCouponActivationHandler {
	return &PostCouponActivationHandler{svc: svc, activate: false}
}

// Execute flips a coupon's active state. Activation only succeeds inside
// the coupon's validity period.
//
//	@Summary		Activate or deactivate coupon
//	@Tags			coupons
//	@Param			couponID	path	string	true	"Coupon ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/coupons/{couponID}/activate [post]
func (h *PostCouponActivationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	couponID, ok := couponIDParam(w, r)
	if !ok {
		return
	}

	var err error
	if h.activate {
		err = h.svc.Coupon.Activate(r.Context(), couponID)
	} else {
		err = h.svc.Coupon.Deactivate(r.Context(), couponID)
	}
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
