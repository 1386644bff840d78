package router

import (
	"net/http"

	"pizza-paradise/internal/auth"
	"pizza-paradise/internal/handler"
	"pizza-paradise/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	couponHandler *handler.CouponHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
	tokens *auth.TokenManager,
	staticDir string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	user := middleware.RequireUser(tokens, logger)
	admin := middleware.RequireAdmin(tokens, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Locally stored pizza images
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Authentication
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	// Catalogue: reads are public, writes are admin-only
	mux.HandleFunc("GET /api/pizzas", catalogHandler.ListPizzas)
	mux.HandleFunc("GET /api/pizzas/{id}", catalogHandler.GetPizza)
	mux.Handle("POST /api/pizzas", admin(http.HandlerFunc(catalogHandler.CreatePizza)))
	mux.Handle("PUT /api/pizzas/{id}", admin(http.HandlerFunc(catalogHandler.UpdatePizza)))
	mux.Handle("DELETE /api/pizzas/{id}", admin(http.HandlerFunc(catalogHandler.DeletePizza)))

	mux.HandleFunc("GET /api/toppings", catalogHandler.ListToppings)
	mux.HandleFunc("GET /api/toppings/{id}", catalogHandler.GetTopping)
	mux.Handle("POST /api/toppings", admin(http.HandlerFunc(catalogHandler.CreateTopping)))
	mux.Handle("PUT /api/toppings/{id}", admin(http.HandlerFunc(catalogHandler.UpdateTopping)))
	mux.Handle("DELETE /api/toppings/{id}", admin(http.HandlerFunc(catalogHandler.DeleteTopping)))

	// Cart
	mux.Handle("GET /api/cart", user(http.HandlerFunc(cartHandler.GetCart)))
	mux.Handle("POST /api/cart/items", user(http.HandlerFunc(cartHandler.AddItem)))
	mux.Handle("PUT /api/cart/items/{id}", user(http.HandlerFunc(cartHandler.UpdateItem)))
	mux.Handle("DELETE /api/cart/items/{id}", user(http.HandlerFunc(cartHandler.RemoveItem)))
	mux.Handle("POST /api/cart/coupons", user(http.HandlerFunc(cartHandler.ApplyCoupon)))
	mux.Handle("POST /api/cart/coupons/remove", user(http.HandlerFunc(cartHandler.RemoveCoupon)))
	mux.Handle("POST /api/cart/checkout", user(http.HandlerFunc(cartHandler.Checkout)))

	// Coupons: administration plus the per-user active listing
	mux.Handle("GET /api/coupons", admin(http.HandlerFunc(couponHandler.List)))
	mux.Handle("GET /api/coupons/active", user(http.HandlerFunc(couponHandler.Active)))
	mux.Handle("GET /api/coupons/{id}", admin(http.HandlerFunc(couponHandler.Get)))
	mux.Handle("POST /api/coupons", admin(http.HandlerFunc(couponHandler.Create)))
	mux.Handle("PUT /api/coupons/{id}", admin(http.HandlerFunc(couponHandler.Update)))
	mux.Handle("DELETE /api/coupons/{id}", admin(http.HandlerFunc(couponHandler.Delete)))

	// Orders
	mux.Handle("GET /api/orders/all", admin(http.HandlerFunc(orderHandler.ListAll)))
	mux.Handle("GET /api/orders/my-orders", user(http.HandlerFunc(orderHandler.ListMine)))
	mux.Handle("GET /api/orders/{id}", user(http.HandlerFunc(orderHandler.Get)))
	mux.Handle("PUT /api/orders/{id}/status", admin(http.HandlerFunc(orderHandler.UpdateStatus)))
	mux.Handle("DELETE /api/orders/{id}", admin(http.HandlerFunc(orderHandler.Delete)))

	// User administration
	mux.Handle("GET /api/users", admin(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/users/{id}", admin(http.HandlerFunc(userHandler.Get)))
	mux.Handle("GET /api/users/{id}/orders", admin(http.HandlerFunc(userHandler.Orders)))
	mux.Handle("PUT /api/users/{id}/role", admin(http.HandlerFunc(userHandler.UpdateRole)))

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
