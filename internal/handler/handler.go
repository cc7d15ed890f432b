// Package handler exposes the storefront HTTP API: catalog listing and
// creation, order placement, and a pair of diagnostic endpoints.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/campusthreads/merch-store/internal/domain/order"
	"github.com/campusthreads/merch-store/internal/domain/product"
)

// StoreDiagnostics reports document store connectivity for the /test endpoint.
type StoreDiagnostics interface {
	Ping(ctx context.Context) error
	Tables(ctx context.Context, limit int) ([]string, error)
}

// Handler routes storefront requests to the catalog repository and the order
// service.
type Handler struct {
	products  product.Repository
	validator product.Validator
	orders    *order.Service
	diag      StoreDiagnostics
}

// New constructs a Handler with the required dependencies. diag may be nil;
// the /test endpoint then reports the store as unavailable.
func New(
	products product.Repository,
	validator product.Validator,
	orders *order.Service,
	diag StoreDiagnostics,
) *Handler {
	return &Handler{
		products:  products,
		validator: validator,
		orders:    orders,
		diag:      diag,
	}
}

// Routes returns the chi router for the storefront API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.root)
	r.Get("/test", h.testStore)
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Post("/orders", h.placeOrder)
	})
	return r
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "School Merchandise Store Backend",
	})
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondDetail writes an error response in the {"detail": ...} shape the
// storefront frontend expects.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// respondInternal logs err and writes an opaque 500.
func respondInternal(ctx context.Context, w http.ResponseWriter, err error) {
	zctx.From(ctx).Error("request failed", zap.Error(err))
	respondDetail(w, http.StatusInternalServerError, "internal error")
}
