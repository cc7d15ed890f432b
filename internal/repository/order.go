package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusthreads/merch-store/internal/domain/order"
)

const createOrderSQL = `INSERT INTO orders (customer_name, customer_email, items, sub_total, embroidery_total, grand_total, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and returns the store-assigned id. The priced
// line items are serialized to JSON for storage in the JSONB column, keeping
// the order a self-contained snapshot.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (string, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("marshaling order items: %w", err)
	}

	var id string
	err = r.pool.QueryRow(ctx, createOrderSQL,
		o.CustomerName, o.CustomerEmail, itemsJSON,
		o.SubTotal, o.EmbroideryTotal, o.GrandTotal, o.Notes,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating order: %w", err)
	}

	return id, nil
}
