package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/basketctx/pkg/errhttp"
	"github.com/ghuser/basketctx/pkg/httpx"
	pkgvalidator "github.com/ghuser/basketctx/pkg/validator"
	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
	"github.com/ghuser/basketctx/services/basket/domain/models"
)

// CreateBasketRequest is the request body for POST /baskets.
type CreateBasketRequest struct {
	CustomerID    string `json:"customer_id"     validate:"required,uuid4"  example:"550e8400-e29b-41d4-a716-446655440000"`
	IsEliteMember bool   `json:"is_elite_member"                            example:"false"`
	TaxPercentage string `json:"tax_percentage"  validate:"required"        example:"18"`
} // @name CreateBasketRequest

// PostBasketHandler handles POST /baskets requests.
type PostBasketHandler struct {
	svc *appsvcs.Services
}

// NewPostBasketHandler returns a PostBasketHandler backed by the given services.
func NewPostBasketHandler(svc *appsvcs.Services) *PostBasketHandler {
	return &PostBasketHandler{svc: svc}
}

// Execute creates a new basket for a customer.
//
//	@Summary		Create basket
//	@Description	Opens a basket for a customer; a customer has at most one basket
//	@Tags			baskets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateBasketRequest	true	"Basket creation request"
//	@Success		201		{object}	BasketResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/baskets [post]
func (h *PostBasketHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateBasketRequest](w, r)
	if !ok {
		return
	}

	customerID, err := models.ParseCustomerID(req.CustomerID)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid customer id"})
		return
	}
	tax, err := decimal.NewFromString(req.TaxPercentage)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid tax percentage"})
		return
	}

	basket, err := h.svc.Basket.Create(r.Context(), customerID, req.IsEliteMember, tax)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, basketResponse(basket))
}

// GetBasketHandler handles GET /baskets/{basketID} requests.
type GetBasketHandler struct {
	svc *appsvcs.Services
}

// NewGetBasketHandler returns a GetBasketHandler backed by the given services.
func NewGetBasketHandler(svc *appsvcs.Services) *GetBasketHandler {
	return &GetBasketHandler{svc: svc}
}

// Execute returns the full basket aggregate.
//
//	@Summary		Get basket
//	@Tags			baskets
//	@Produce		json
//	@Param			basketID	path		string	true	"Basket ID"
//	@Success		200			{object}	BasketResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/baskets/{basketID} [get]
func (h *GetBasketHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}

	basket, err := h.svc.Basket.Get(r.Context(), basketID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, basketResponse(basket))
}

// BasketSummaryResponse is the denormalized basket summary served from cache.
type BasketSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	HasCoupon   bool      `json:"has_coupon"`
} // @name BasketSummaryResponse

// GetBasketSummaryHandler handles GET /baskets/{basketID}/summary requests.
type GetBasketSummaryHandler struct {
	svc *appsvcs.Services
}

// NewGetBasketSummaryHandler returns a GetBasketSummaryHandler backed by the given services.
func NewGetBasketSummaryHandler(svc *appsvcs.Services) *GetBasketSummaryHandler {
	return &GetBasketSummaryHandler{svc: svc}
}

// Execute returns the basket summary, served read-through from Redis.
//
//	@Summary		Get basket summary
//	@Tags			baskets
//	@Produce		json
//	@Param			basketID	path		string	true	"Basket ID"
//	@Success		200			{object}	BasketSummaryResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/baskets/{basketID}/summary [get]
func (h *GetBasketSummaryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Basket.GetSummary(r.Context(), basketID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, BasketSummaryResponse{
		ID:          summary.ID,
		CustomerID:  summary.CustomerID,
		TotalAmount: summary.TotalAmount,
		ItemCount:   summary.ItemCount,
		HasCoupon:   summary.HasCoupon,
	})
}

// AssignCustomerRequest is the request body for PUT /baskets/{basketID}/customer.
type AssignCustomerRequest struct {
	CustomerID    string `json:"customer_id"     validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	IsEliteMember bool   `json:"is_elite_member"                           example:"true"`
} // @name AssignCustomerRequest

// PutCustomerHandler handles PUT /baskets/{basketID}/customer requests.
type PutCustomerHandler struct {
	svc *appsvcs.Services
}

// NewPutCustomerHandler returns a PutCustomerHandler backed by the given services.
func NewPutCustomerHandler(svc *appsvcs.Services) *PutCustomerHandler {
	return &PutCustomerHandler{svc: svc}
}

// Execute replaces the basket's customer.
//
//	@Summary		Assign customer
//	@Tags			baskets
//	@Accept			json
//	@Produce		json
//	@Param			basketID	path		string					true	"Basket ID"
//	@Param			request		body		AssignCustomerRequest	true	"Customer assignment"
//	@Success		200			{object}	BasketResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/baskets/{basketID}/customer [put]
func (h *PutCustomerHandler) Execute(w http.ResponseWriter, r *http.Request) {
	basketID, ok := basketIDParam(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AssignCustomerRequest](w, r)
	if !ok {
		return
	}
	customerID, err := models.ParseCustomerID(req.CustomerID)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid customer id"})
		return
	}

	if err := h.svc.Basket.AssignCustomer(r.Context(), basketID, customerID, req.IsEliteMember); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	basket, err := h.svc.Basket.Get(r.Context(), basketID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, basketResponse(basket))
}
