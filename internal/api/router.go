package api

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Router struct {
	Auth           *handlers.AuthHandler
	Product        *handlers.ProductHandler
	Cart           *handlers.CartHandler
	Order          *handlers.OrderHandler
	AuthMiddleware *middleware.AuthMiddleware
	Health         http.Handler
}

// Handler builds the mux and wraps it in the middleware chain, outermost first:
// Recovery, Logging, metrics.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	protect := rt.AuthMiddleware.Authenticate

	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register())
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login())
	mux.HandleFunc("GET /api/auth/me", protect(rt.Auth.Me()))

	mux.HandleFunc("GET /api/products", rt.Product.ListProducts())
	mux.HandleFunc("GET /api/products/categories/all", rt.Product.ListCategories())
	mux.HandleFunc("GET /api/products/{id}", rt.Product.GetProduct())

	mux.HandleFunc("GET /api/cart", protect(rt.Cart.GetCart()))
	mux.HandleFunc("POST /api/cart/add", protect(rt.Cart.AddItem()))
	mux.HandleFunc("PUT /api/cart/update/{itemId}", protect(rt.Cart.UpdateItem()))
	mux.HandleFunc("DELETE /api/cart/remove/{itemId}", protect(rt.Cart.RemoveItem()))
	mux.HandleFunc("DELETE /api/cart/clear", protect(rt.Cart.ClearCart()))

	mux.HandleFunc("POST /api/orders", protect(rt.Order.CreateOrder()))
	mux.HandleFunc("GET /api/orders/my-orders", protect(rt.Order.ListMyOrders()))
	mux.HandleFunc("GET /api/orders/{id}", protect(rt.Order.GetOrder()))
	mux.HandleFunc("PUT /api/orders/{id}/pay", protect(rt.Order.PayOrder()))

	if rt.Health != nil {
		mux.Handle("GET /health", rt.Health)
	}

	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}
