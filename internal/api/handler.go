// Package api is the HTTP adapter over the core engine: it parses and
// validates transport input, invokes exactly one core operation per request,
// and maps typed failures to status codes.
package api

import (
	"net/http"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/insights"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/user"
)

// Handler serves the public and admin API routes, delegating all business
// logic to the injected services.
type Handler struct {
	carts    *cart.Service
	orders   *order.Service
	users    *user.Directory
	insights *insights.Aggregator
	items    catalog.Repository
	ledger   discount.Ledger
	issuer   *discount.Issuer
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	carts *cart.Service,
	orders *order.Service,
	users *user.Directory,
	ins *insights.Aggregator,
	items catalog.Repository,
	ledger discount.Ledger,
	issuer *discount.Issuer,
) *Handler {
	return &Handler{
		carts:    carts,
		orders:   orders,
		users:    users,
		insights: ins,
		items:    items,
		ledger:   ledger,
		issuer:   issuer,
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/items", h.listItems)

	mux.HandleFunc("GET /api/cart/{userId}", h.getCart)
	mux.HandleFunc("POST /api/cart/add", h.addItem)
	mux.HandleFunc("POST /api/cart/remove", h.removeItem)

	mux.HandleFunc("POST /api/order", h.placeOrder)

	mux.HandleFunc("POST /api/discount/apply", h.applyDiscount)
	mux.HandleFunc("POST /api/discount/remove", h.removeDiscount)
	mux.HandleFunc("GET /api/discount", h.listDiscounts)

	mux.HandleFunc("GET /api/admin/insights", h.getInsights)
	mux.HandleFunc("POST /api/admin/discount", h.createDiscount)

	mux.HandleFunc("POST /api/user/login", h.login)

	return mux
}
