package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/campusthreads/merch-store/internal/domain/product"
)

// DefaultEmbroideryFee is the flat per-unit charge applied when a line item
// requests custom embroidery.
var DefaultEmbroideryFee = decimal.NewFromInt(8)

// ErrEmptyItems is returned when an order request carries no items.
var ErrEmptyItems = errors.New("items required")

// InvalidColorError indicates a requested color outside the store palette.
type InvalidColorError struct {
	Color product.Color
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color %q", e.Color)
}

// InvalidQuantityError indicates a line item with quantity below one.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be >= 1 for product %s", e.ProductID)
}

// InvalidProductIDError indicates a malformed product identifier.
type InvalidProductIDError struct {
	ProductID string
}

func (e *InvalidProductIDError) Error() string {
	return fmt.Sprintf("invalid product id %q", e.ProductID)
}

// ProductNotFoundError indicates a well-formed product id with no matching
// record. A single unresolved id aborts the entire order.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// ItemRequest is one requested line of an order before pricing.
type ItemRequest struct {
	ProductID      string
	Color          product.Color
	Quantity       int
	EmbroideryText string
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	Items         []ItemRequest
	Notes         string
}

// Service encapsulates order placement: validation, pricing, and persistence.
// The palette and embroidery fee are injected so deployments can vary them
// without touching the pricing logic.
type Service struct {
	products      product.Repository
	orders        Repository
	palette       product.Palette
	embroideryFee decimal.Decimal
}

// NewService creates an order Service with the required dependencies.
func NewService(
	products product.Repository,
	orders Repository,
	palette product.Palette,
	embroideryFee decimal.Decimal,
) *Service {
	return &Service{
		products:      products,
		orders:        orders,
		palette:       palette,
		embroideryFee: embroideryFee,
	}
}

// PlaceOrder validates the request, resolves all products in a single batched
// lookup, prices each line, and persists the order. Either the whole order
// validates and is persisted, or nothing is.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate every item before touching the database.
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if !s.palette.Contains(item.Color) {
			return nil, &InvalidColorError{Color: item.Color}
		}
		if item.Quantity < 1 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		if !product.ValidID(item.ProductID) {
			return nil, &InvalidProductIDError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	// Batch fetch all referenced products in one query.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	items, subTotal, embroideryTotal, err := priceItems(req.Items, byID, s.embroideryFee)
	if err != nil {
		return nil, err
	}

	o := &Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Items:           items,
		SubTotal:        subTotal.Round(2),
		EmbroideryTotal: embroideryTotal.Round(2),
		GrandTotal:      subTotal.Add(embroideryTotal).Round(2),
		Notes:           req.Notes,
	}

	id, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	o.ID = id

	return o, nil
}

// priceItems snapshots resolved products into order lines and accumulates the
// aggregate totals. It is pure computation: resolution and persistence are
// the caller's concern. Duplicate product ids stay separate lines; item order
// is preserved.
func priceItems(
	items []ItemRequest,
	byID map[string]product.Product,
	fee decimal.Decimal,
) (lines []OrderItem, subTotal, embroideryTotal decimal.Decimal, err error) {
	lines = make([]OrderItem, 0, len(items))
	subTotal = decimal.Zero
	embroideryTotal = decimal.Zero

	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, decimal.Zero, decimal.Zero, &ProductNotFoundError{ProductID: item.ProductID}
		}

		lineFee := decimal.Zero
		if strings.TrimSpace(item.EmbroideryText) != "" {
			lineFee = fee
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		unit := p.BasePrice

		lines = append(lines, OrderItem{
			ProductID:      p.ID,
			Title:          p.Title,
			Category:       p.Category,
			Color:          item.Color,
			Quantity:       item.Quantity,
			UnitPrice:      unit,
			EmbroideryText: item.EmbroideryText,
			EmbroideryFee:  lineFee,
			LineTotal:      unit.Add(lineFee).Mul(qty),
		})

		subTotal = subTotal.Add(unit.Mul(qty))
		embroideryTotal = embroideryTotal.Add(lineFee.Mul(qty))
	}

	return lines, subTotal, embroideryTotal, nil
}
