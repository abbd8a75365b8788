package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API with the shared middleware stack.
func NewRouter(products *ProductHandler, carts *CartHandler, auths *AuthHandler, checkouts *CheckoutHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/categories", products.Categories)
			r.Get("/brands", products.Brands)
			r.Get("/{id}", products.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Post("/items", carts.AddItem)
			r.Put("/items/{product_id}", carts.UpdateQuantity)
			r.Delete("/items/{product_id}", carts.RemoveItem)
			r.Delete("/", carts.ClearCart)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auths.Login)
			r.Post("/register", auths.Register)
			r.Post("/verify", auths.Verify)
			r.Post("/resend", auths.Resend)
			r.Post("/logout", auths.Logout)
			r.Get("/me", auths.Me)
		})

		r.Post("/checkout", checkouts.PlaceOrder)
	})

	return r
}
