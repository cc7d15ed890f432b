package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/campusthreads/merch-store/internal/domain/order"
	"github.com/campusthreads/merch-store/internal/domain/product"
)

type orderItemRequest struct {
	ProductID      string `json:"product_id"`
	Color          string `json:"color"`
	Quantity       int    `json:"quantity"`
	EmbroideryText string `json:"embroidery_text"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Items         []orderItemRequest `json:"items"`
	Notes         string             `json:"notes"`
}

type createOrderResponse struct {
	ID         string  `json:"id"`
	GrandTotal float64 `json:"grand_total"`
}

// placeOrder converts the request, delegates to the order service, and maps
// the result (or validation error) back to HTTP.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.ItemRequest{
			ProductID:      it.ProductID,
			Color:          product.Color(it.Color),
			Quantity:       it.Quantity,
			EmbroideryText: it.EmbroideryText,
		}
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         items,
		Notes:         req.Notes,
	})
	if err != nil {
		if detail, ok := orderErrorDetail(err); ok {
			respondDetail(w, http.StatusBadRequest, detail)
			return
		}
		respondInternal(r.Context(), w, errors.Wrap(err, "place order"))
		return
	}

	respondJSON(w, http.StatusCreated, createOrderResponse{
		ID:         o.ID,
		GrandTotal: o.GrandTotal.InexactFloat64(),
	})
}

// orderErrorDetail maps order validation errors to the messages the frontend
// matches on. The second return is false for unexpected errors.
func orderErrorDetail(err error) (string, bool) {
	var (
		icErr  *order.InvalidColorError
		iqErr  *order.InvalidQuantityError
		ipErr  *order.InvalidProductIDError
		pnfErr *order.ProductNotFoundError
	)
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		return "items required", true
	case errors.As(err, &icErr):
		return fmt.Sprintf("Invalid color: %s", icErr.Color), true
	case errors.As(err, &iqErr):
		return "Quantity must be >= 1", true
	case errors.As(err, &ipErr):
		return "Invalid product id", true
	case errors.As(err, &pnfErr):
		return "One or more products not found", true
	default:
		return "", false
	}
}
