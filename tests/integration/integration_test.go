//go:build integration

// Package integration exercises the storefront end to end against a real
// PostgreSQL instance started with testcontainers. Run with:
//
//	go test -tags=integration ./tests/integration/...
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/campusthreads/merch-store/internal/domain/order"
	"github.com/campusthreads/merch-store/internal/domain/product"
	"github.com/campusthreads/merch-store/internal/handler"
	"github.com/campusthreads/merch-store/internal/repository"
)

var (
	baseURL    string
	httpClient *http.Client
	pool       *pgxpool.Pool
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("merch"),
		postgres.WithUsername("merch"),
		postgres.WithPassword("merch"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate postgres container: %v", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("connection string: %v", err)
	}

	pool, err = repository.NewPool(ctx, connStr)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	// Wire the storefront exactly as the server does, minus middleware.
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	validator := product.NewValidator(product.DefaultCategories(), product.DefaultPalette())
	orderSvc := order.NewService(productRepo, orderRepo, product.DefaultPalette(), order.DefaultEmbroideryFee)
	h := handler.New(productRepo, validator, orderSvc, repository.NewDiagnostics(pool))

	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	baseURL = srv.URL
	httpClient = srv.Client()
	log.Printf("API available at %s", baseURL)

	return m.Run()
}

// Response types mirror the public API shapes.

type productResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	BasePrice   float64  `json:"base_price"`
	Colors      []string `json:"colors"`
	Images      []string `json:"images"`
	InStock     bool     `json:"in_stock"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type orderResponse struct {
	ID         string  `json:"id"`
	GrandTotal float64 `json:"grand_total"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}

	return resp
}

func doPost(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}

	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return v
}

// createProduct inserts a catalog item through the API and returns its id.
func createProduct(t *testing.T, title string, price float64, colors []string) string {
	t.Helper()

	resp := doPost(t, "/api/products", map[string]any{
		"title":      title,
		"category":   "hoodie",
		"base_price": price,
		"colors":     colors,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product %q: status %d", title, resp.StatusCode)
	}

	created := decodeJSON[createdResponse](t, resp)
	if created.ID == "" {
		t.Fatalf("create product %q: empty id", title)
	}
	return created.ID
}
