package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/campusthreads/merch-store/internal/domain/product"
)

type productResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	BasePrice   float64  `json:"base_price"`
	Colors      []string `json:"colors"`
	Images      []string `json:"images"`
	InStock     bool     `json:"in_stock"`
}

type createProductRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	BasePrice   float64  `json:"base_price"`
	Colors      []string `json:"colors"`
	Images      []string `json:"images"`
	InStock     *bool    `json:"in_stock"`
}

// listProducts returns every product in the catalog.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondInternal(r.Context(), w, errors.Wrap(err, "list products"))
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// createProduct validates and inserts a catalog item, returning its id.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := product.Product{
		Title:       req.Title,
		Category:    product.Category(req.Category),
		Description: req.Description,
		BasePrice:   decimal.NewFromFloat(req.BasePrice),
		Colors:      toColors(req.Colors),
		Images:      req.Images,
		InStock:     req.InStock == nil || *req.InStock,
	}

	if err := h.validator.Validate(p); err != nil {
		respondDetail(w, http.StatusBadRequest, productErrorDetail(err))
		return
	}

	id, err := h.products.Create(r.Context(), p)
	if err != nil {
		respondInternal(r.Context(), w, errors.Wrap(err, "create product"))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// productErrorDetail maps creation validation errors to response messages.
func productErrorDetail(err error) string {
	var (
		icErr  *product.InvalidCategoryError
		colErr *product.InvalidColorError
	)
	switch {
	case errors.As(err, &icErr):
		return "Invalid category"
	case errors.As(err, &colErr):
		return "One or more invalid colors"
	case errors.Is(err, product.ErrNegativePrice):
		return "Base price must be >= 0"
	default:
		return err.Error()
	}
}

func toProductResponse(p product.Product) productResponse {
	colors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = string(c)
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Category:    string(p.Category),
		Description: p.Description,
		BasePrice:   p.BasePrice.InexactFloat64(),
		Colors:      colors,
		Images:      images,
		InStock:     p.InStock,
	}
}

func toColors(colors []string) []product.Color {
	out := make([]product.Color, len(colors))
	for i, c := range colors {
		out[i] = product.Color(c)
	}
	return out
}
