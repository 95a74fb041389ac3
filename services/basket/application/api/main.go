package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/basketctx/pkg/app"
	"github.com/ghuser/basketctx/services/basket/application/handlers"
	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
)

// BasketRoutes registers basket and coupon endpoints on the provided chi router.
func BasketRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return fmt.Errorf("wire basket services: %w", err)
	}

	r.Group(func(r chi.Router) {
		r.Route("/baskets", func(r chi.Router) {
			r.Post("/", handlers.NewPostBasketHandler(svcs).Execute)
			r.Route("/{basketID}", func(r chi.Router) {
				r.Get("/", handlers.NewGetBasketHandler(svcs).Execute)
				r.Get("/summary", handlers.NewGetBasketSummaryHandler(svcs).Execute)
				r.Put("/customer", handlers.NewPutCustomerHandler(svcs).Execute)

				r.Route("/items", func(r chi.Router) {
					r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
					r.Delete("/", handlers.NewDeleteAllItemsHandler(svcs).Execute)
					r.Route("/{itemID}", func(r chi.Router) {
						r.Patch("/", handlers.NewPatchItemCountHandler(svcs).Execute)
						r.Delete("/", handlers.NewDeleteItemHandler(svcs).Execute)
						r.Post("/activate", handlers.NewPostItemActivateHandler(svcs).Execute)
						r.Post("/deactivate", handlers.NewPostItemDeactivateHandler(svcs).Execute)
					})
				})

				r.Post("/sellers/{sellerID}/shipping", handlers.NewPostShippingHandler(svcs).Execute)
				r.Post("/items-amount", handlers.NewPostItemsAmountHandler(svcs).Execute)
				r.Post("/total", handlers.NewPostTotalHandler(svcs).Execute)

				r.Put("/coupon", handlers.NewPutCouponHandler(svcs).Execute)
				r.Delete("/coupon", handlers.NewDeleteCouponHandler(svcs).Execute)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", handlers.NewPostCouponHandler(svcs).Execute)
			r.Route("/{couponID}", func(r chi.Router) {
				r.Get("/", handlers.NewGetCouponHandler(svcs).Execute)
				r.Post("/activate", handlers.NewPostCouponActivateHandler(svcs).Execute)
				r.Post("/deactivate", handlers.NewPostCouponDeactivateHandler(svcs).Execute)
			})
		})
	})
	return nil
}
