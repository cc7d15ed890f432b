package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/campusthreads/merch-store/internal/domain/product"
)

// OrderItem is one priced line of an order. Title, category and unit price
// are copied from the product at order time; the line is never recomputed
// afterwards, so later product edits do not affect past orders.
type OrderItem struct {
	ProductID      string           `json:"product_id"`
	Title          string           `json:"title"`
	Category       product.Category `json:"category"`
	Color          product.Color    `json:"color"`
	Quantity       int              `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	EmbroideryText string           `json:"embroidery_text,omitempty"`
	EmbroideryFee  decimal.Decimal  `json:"embroidery_fee"`
	LineTotal      decimal.Decimal  `json:"line_total"`
}

// Order is a completed customer order. Items keep the exact order of the
// request. Invariants: SubTotal = Σ unit_price*quantity, EmbroideryTotal =
// Σ embroidery_fee*quantity, GrandTotal = SubTotal + EmbroideryTotal.
type Order struct {
	ID              string
	CustomerName    string
	CustomerEmail   string
	Items           []OrderItem
	SubTotal        decimal.Decimal
	EmbroideryTotal decimal.Decimal
	GrandTotal      decimal.Decimal
	Notes           string
	CreatedAt       time.Time
}

// Repository defines persistence operations for orders. Create returns the
// store-assigned order identifier.
type Repository interface {
	Create(ctx context.Context, o *Order) (string, error)
}
