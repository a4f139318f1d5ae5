package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmeshcher/solemates/internal/metrics"
	custommiddleware "github.com/mmeshcher/solemates/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(custommiddleware.GzipMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(h.clientMiddleware.Middleware)
		r.Use(custommiddleware.Logger(h.logger))

		r.Get("/view", h.View)
		r.Post("/navigate", h.Navigate)

		r.Get("/products", h.Products)
		r.Post("/products/{id}/select", h.SelectProduct)

		r.Route("/user", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/signup", h.Signup)
			r.Post("/logout", h.Logout)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.AddToCart)
			r.Delete("/{productId}", h.RemoveFromCart)
			r.Put("/{productId}", h.UpdateQuantity)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout)
			r.Post("/pay", h.SubmitPayment)
			r.Post("/complete", h.CompleteCheckout)
		})

		r.Get("/orders", h.GetOrders)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", h.GetDashboard)
			r.Post("/products", h.AddProduct)
			r.Post("/description", h.GenerateDescription)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
