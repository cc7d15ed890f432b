package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/campusthreads/merch-store/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, title, category, description, base_price, colors, images, in_stock
		FROM products ORDER BY created_at, id`

	getProductsByIDsSQL = `SELECT id, title, category, description, base_price, colors, images, in_stock
		FROM products WHERE id = ANY($1)`

	createProductSQL = `INSERT INTO products (title, category, description, base_price, colors, images, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	upsertProductSQL = `INSERT INTO products (id, title, category, description, base_price, colors, images, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			base_price = EXCLUDED.base_price,
			colors = EXCLUDED.colors,
			images = EXCLUDED.images,
			in_stock = EXCLUDED.in_stock`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByIDs returns products matching any of the given ids in a single query.
// Missing ids are simply absent from the result; the caller decides whether
// that is an error.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create inserts a new product and returns its store-assigned id.
func (r *ProductRepository) Create(ctx context.Context, p product.Product) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, createProductSQL,
		p.Title, string(p.Category), p.Description, p.BasePrice,
		colorStrings(p.Colors), p.Images, p.InStock,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating product: %w", err)
	}
	return id, nil
}

// Upsert inserts or replaces a product with a caller-supplied id. Used by the
// seed and feed-ingest tools; the API itself only ever calls Create.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Title, string(p.Category), p.Description, p.BasePrice,
		colorStrings(p.Colors), p.Images, p.InStock,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p      product.Product
		price  decimal.Decimal
		colors []string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.Description, &price,
		&colors, &p.Images, &p.InStock,
	)
	p.BasePrice = price
	p.Colors = make([]product.Color, len(colors))
	for i, c := range colors {
		p.Colors[i] = product.Color(c)
	}
	return p, err
}

func colorStrings(colors []product.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = string(c)
	}
	return out
}
