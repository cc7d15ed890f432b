// Command seed-db populates the database with a demo catalog so the
// storefront is usable right after deployment. Products carry fixed ids and
// are upserted, so reruns are idempotent.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/campusthreads/merch-store/internal/domain/product"
	"github.com/campusthreads/merch-store/internal/repository"
)

var demoCatalog = []product.Product{
	{
		ID:          "6f1d0cfe-7d55-4d7a-8a5b-0d6c7a3e9b01",
		Title:       "Campus Hoodie",
		Category:    product.CategoryHoodie,
		Description: "Heavyweight fleece hoodie with the school crest",
		BasePrice:   decimal.NewFromFloat(42.50),
		Colors:      []product.Color{product.ColorGreen, product.ColorBlack},
		Images:      []string{"/images/hoodie-green.png", "/images/hoodie-black.png"},
		InStock:     true,
	},
	{
		ID:          "6f1d0cfe-7d55-4d7a-8a5b-0d6c7a3e9b02",
		Title:       "Winter Beanie",
		Category:    product.CategoryBeanie,
		Description: "Ribbed knit beanie, one size fits all",
		BasePrice:   decimal.NewFromFloat(14.00),
		Colors:      []product.Color{product.ColorBlack, product.ColorYellow},
		Images:      []string{"/images/beanie-black.png"},
		InStock:     true,
	},
	{
		ID:          "6f1d0cfe-7d55-4d7a-8a5b-0d6c7a3e9b03",
		Title:       "House Shirt",
		Category:    product.CategoryShirt,
		Description: "Soft cotton tee in house colors",
		BasePrice:   decimal.NewFromFloat(20.00),
		Colors:      []product.Color{product.ColorGreen, product.ColorYellow, product.ColorWhite},
		Images:      []string{"/images/shirt-green.png", "/images/shirt-white.png"},
		InStock:     true,
	},
	{
		ID:          "6f1d0cfe-7d55-4d7a-8a5b-0d6c7a3e9b04",
		Title:       "Training Trackpants",
		Category:    product.CategoryTrackpants,
		Description: "Tapered trackpants with zip pockets",
		BasePrice:   decimal.NewFromFloat(36.25),
		Colors:      []product.Color{product.ColorBlack},
		Images:      []string{"/images/trackpants-black.png"},
		InStock:     true,
	},
	{
		ID:          "6f1d0cfe-7d55-4d7a-8a5b-0d6c7a3e9b05",
		Title:       "Limited Varsity Hoodie",
		Category:    product.CategoryHoodie,
		Description: "Last season's varsity run",
		BasePrice:   decimal.NewFromFloat(48.00),
		Colors:      []product.Color{product.ColorWhite},
		Images:      []string{"/images/varsity-white.png"},
		InStock:     false,
	},
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewProductRepository(pool)

	slog.Info("upserting products", slog.Int("count", len(demoCatalog)))

	for _, p := range demoCatalog {
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("title", p.Title))
	}

	return nil
}
